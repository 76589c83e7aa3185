package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/findy-network/findy-a2a/agent/utils"
	"github.com/findy-network/findy-a2a/cmds/agent"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var agentEnvs = map[string]string{
	"name":         "NAME",
	"data-dir":     "DATA_DIR",
	"storage-key":  "STORAGE_KEY",
	"seed":         "SEED",
	"host-address": "HOST_ADDRESS",
	"label":        "LABEL",
}

// agentCmd represents the agent command
var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Parent command for the agent actions",
	Long: `
Parent command for the agent actions.

This command requires a subcommand so command itself does nothing. Every
agent subcommand works on the storage of the agent named by --name. The bolt
file of the agent can be open in one process at the time.

Example
	findy-a2a agent serve \
		--name alice \
		--host-address http://localhost:8090 \
		--server-port 8090
`,
	PreRunE: func(cmd *cobra.Command, _ []string) (err error) {
		return BindEnvs(agentEnvs, cmd.Name())
	},
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		rootCmd.PersistentPreRun(cmd, nil)
		utils.Settings.SetLabel(label)
		utils.Settings.SetDataDir(aFlags.DataDir)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		SubCmdNeeded(cmd)
	},
}

var (
	aFlags = agent.Cmd{}
	label  string
)

var serveEnvs = map[string]string{
	"server-port":      "SERVER_PORT",
	"invitation-ttl":   "INVITATION_TTL",
	"janitor-interval": "JANITOR_INTERVAL",
}

// serveCmd represents the agent serve subcommand
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Command for serving the agent to agent endpoint",
	Long: `
Serves the agent to agent endpoint until the process is interrupted. Stale
invitations are abandoned by the janitor.

Example
	findy-a2a agent serve \
		--name alice \
		--host-address http://localhost:8090 \
		--server-port 8090
	`,
	PreRunE: func(cmd *cobra.Command, _ []string) (err error) {
		return BindEnvs(serveEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		defer err2.Handle(&err)

		ctx, stop := signalContext()
		defer stop()
		serve.Cmd = aFlags
		serve.Ctx = ctx
		return run(serve)
	},
}

var serve = agent.ServeCmd{}

var invitationEnvs = map[string]string{
	"alias": "ALIAS",
	"url":   "URL",
}

// invitationCmd represents the agent invitation subcommand
var invitationCmd = &cobra.Command{
	Use:   "invitation",
	Short: "Command for creating an invitation",
	Long: `
Creates a single use connection invitation and prints it as JSON or as URL.
The agent must be served to accept the connection request.

Example
	findy-a2a agent invitation \
		--name alice \
		--label Alice \
		--url
	`,
	PreRunE: func(cmd *cobra.Command, _ []string) (err error) {
		return BindEnvs(invitationEnvs, cmd.Name())
	},
	RunE: func(_ *cobra.Command, _ []string) (err error) {
		invitation.Cmd = aFlags
		invitation.Label = label
		return run(invitation)
	},
}

var invitation = agent.InvitationCmd{}

var connectEnvs = map[string]string{
	"alias":       "ALIAS",
	"server-port": "SERVER_PORT",
	"wait":        "WAIT",
}

// connectCmd represents the agent connect subcommand
var connectCmd = &cobra.Command{
	Use:   "connect [invitation]",
	Short: "Command for connecting with the invitation",
	Long: `
Accepts the invitation, given as URL or JSON, and sends the connection
request to the inviter. With --wait the command serves the endpoint until the
connection is ready. Without it the response is handled by the next serve.

Example
	findy-a2a agent connect \
		--name bob \
		--host-address http://localhost:8091 \
		--server-port 8091 \
		--wait 30s \
		"http://localhost:8090/a2a/?c_i=eyJA..."
	`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) (err error) {
		return BindEnvs(connectEnvs, cmd.Name())
	},
	RunE: func(_ *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		connect.Cmd = aFlags
		connect.Label = label
		connect.Invitation = readInvitation(args[0])
		return run(connect)
	},
}

var connect = agent.ConnectCmd{}

// readInvitation returns the content of the file if the argument is a file.
func readInvitation(arg string) string {
	if _, err := os.Stat(arg); err == nil {
		return string(try.To1(os.ReadFile(arg)))
	}
	return arg
}

var connectionsEnvs = map[string]string{
	"state": "STATE",
}

// connectionsCmd represents the agent connections subcommand
var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "Command for listing the connections",
	Long: `
Lists the connections of the agent.

Example
	findy-a2a agent connections \
		--name alice \
		--state connected
	`,
	PreRunE: func(cmd *cobra.Command, _ []string) (err error) {
		return BindEnvs(connectionsEnvs, cmd.Name())
	},
	RunE: func(_ *cobra.Command, _ []string) (err error) {
		list.Cmd = aFlags
		return run(list)
	},
}

var list = agent.ListCmd{}

var sendEnvs = map[string]string{
	"connection-id": "CONNECTION_ID",
	"msg":           "MSG",
}

// sendCmd represents the agent send subcommand
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Command for sending a basic message",
	Long: `
Sends a basic message to the connected agent.

Example
	findy-a2a agent send \
		--name bob \
		--connection-id 1f2e... \
		--msg "Hello Alice"
	`,
	PreRunE: func(cmd *cobra.Command, _ []string) (err error) {
		return BindEnvs(sendEnvs, cmd.Name())
	},
	RunE: func(_ *cobra.Command, _ []string) (err error) {
		send.Cmd = aFlags
		return run(send)
	},
}

var send = agent.SendCmd{}

var pingEnvs = map[string]string{
	"connection-id": "CONNECTION_ID",
}

// pingCmd represents the agent ping subcommand
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Command for sending a trust ping",
	Long: `
Sends a trust ping to the connected agent. The response is handled by the
served agent.

Example
	findy-a2a agent ping \
		--name bob \
		--connection-id 1f2e...
	`,
	PreRunE: func(cmd *cobra.Command, _ []string) (err error) {
		return BindEnvs(pingEnvs, cmd.Name())
	},
	RunE: func(_ *cobra.Command, _ []string) (err error) {
		ping.Cmd = aFlags
		return run(ping)
	},
}

var ping = agent.PingCmd{}

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	flags := agentCmd.PersistentFlags()
	flags.StringVar(&aFlags.Name, "name", "", flagInfo("agent name", agentCmd.Name(), agentEnvs["name"]))
	flags.StringVar(&aFlags.DataDir, "data-dir", utils.Settings.DataDir(), flagInfo("directory of the agent storage", agentCmd.Name(), agentEnvs["data-dir"]))
	flags.StringVar(&aFlags.StorageKey, "storage-key", "", flagInfo("hex sealing key of the storage", agentCmd.Name(), agentEnvs["storage-key"]))
	flags.StringVar(&aFlags.Seed, "seed", "", flagInfo("seed of the agent key", agentCmd.Name(), agentEnvs["seed"]))
	flags.StringVar(&aFlags.HostAddr, "host-address", "http://localhost:8090", flagInfo("public address of the agent", agentCmd.Name(), agentEnvs["host-address"]))
	flags.StringVar(&label, "label", "", flagInfo("our label for the other agents", agentCmd.Name(), agentEnvs["label"]))

	serveCmd.Flags().UintVar(&serve.ServerPort, "server-port", 8090, flagInfo("http server port", serveCmd.Name(), serveEnvs["server-port"]))
	serveCmd.Flags().DurationVar(&serve.InvitationTTL, "invitation-ttl", utils.DefaultInvitationTTL, flagInfo("lifetime of the unused invitations", serveCmd.Name(), serveEnvs["invitation-ttl"]))
	serveCmd.Flags().DurationVar(&serve.JanitorInterval, "janitor-interval", agent.DefaultJanitorInterval, flagInfo("interval of the invitation cleanup", serveCmd.Name(), serveEnvs["janitor-interval"]))

	invitationCmd.Flags().StringVar(&invitation.Alias, "alias", "", flagInfo("our name for the connection", invitationCmd.Name(), invitationEnvs["alias"]))
	invitationCmd.Flags().BoolVar(&invitation.URL, "url", false, flagInfo("print invitation URL instead of JSON", invitationCmd.Name(), invitationEnvs["url"]))

	connectCmd.Flags().StringVar(&connect.Alias, "alias", "", flagInfo("our name for the connection", connectCmd.Name(), connectEnvs["alias"]))
	connectCmd.Flags().UintVar(&connect.ServerPort, "server-port", 0, flagInfo("http server port while waiting", connectCmd.Name(), connectEnvs["server-port"]))
	connectCmd.Flags().DurationVar(&connect.Wait, "wait", 0, flagInfo("wait the connection to be ready", connectCmd.Name(), connectEnvs["wait"]))

	connectionsCmd.Flags().StringVar(&list.State, "state", "", flagInfo("list only the connections in the state", connectionsCmd.Name(), connectionsEnvs["state"]))

	sendCmd.Flags().StringVar(&send.ConnectionID, "connection-id", "", flagInfo("connection id", sendCmd.Name(), sendEnvs["connection-id"]))
	sendCmd.Flags().StringVar(&send.Message, "msg", "", flagInfo("message to send", sendCmd.Name(), sendEnvs["msg"]))

	pingCmd.Flags().StringVar(&ping.ConnectionID, "connection-id", "", flagInfo("connection id", pingCmd.Name(), pingEnvs["connection-id"]))

	rootCmd.AddCommand(agentCmd)
	agentCmd.AddCommand(serveCmd, invitationCmd, connectCmd, connectionsCmd, sendCmd, pingCmd)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
