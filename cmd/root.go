package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/findy-network/findy-a2a/agent/utils"
	"github.com/findy-network/findy-a2a/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "FA2A"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: utils.Version,
	Use:     "findy-a2a",
	Short:   "Findy agent to agent messaging tool",
	Long: `
Findy agent to agent messaging tool. It runs an agent which makes pairwise
connections with other agents and exchanges DIDComm messages over them.
	`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		cmds.ParseLoggingArgs(rootFlags.logging)
		handleViperFlags(cmd)
		rootFlags.apply()
	},
}

// Execute root
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// cobra has printed the error already
		os.Exit(1)
	}
}

// RootCmd returns a current root command which can be used for adding own
// commands in an own repo.
func RootCmd() *cobra.Command {
	return rootCmd
}

// DryRun returns a value of a dry run flag.
func DryRun() bool {
	return rootFlags.dryRun
}

// RootFlags are the common flags
type RootFlags struct {
	cfgFile     string
	dryRun      bool
	logging     string
	serviceName string
	timeout     time.Duration
}

func (f RootFlags) apply() {
	utils.Settings.SetServiceName(f.serviceName)
	utils.Settings.SetTimeout(f.timeout)
}

var rootFlags = RootFlags{}

var rootEnvs = map[string]string{
	"config":       "CONFIG",
	"logging":      "LOGGING",
	"dry-run":      "DRY_RUN",
	"service-name": "SERVICE_NAME",
	"timeout":      "TIMEOUT",
}

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootFlags.cfgFile, "config", "", flagInfo("configuration file", "", rootEnvs["config"]))
	flags.StringVar(&rootFlags.logging, "logging", "-logtostderr=true -v=2", flagInfo("logging startup arguments", "", rootEnvs["logging"]))
	flags.BoolVarP(&rootFlags.dryRun, "dry-run", "n", false, flagInfo("perform a trial run with no changes made", "", rootEnvs["dry-run"]))
	flags.StringVar(&rootFlags.serviceName, "service-name", utils.Settings.ServiceName(), flagInfo("URL path of the agent endpoint", "", rootEnvs["service-name"]))
	flags.DurationVar(&rootFlags.timeout, "timeout", utils.Settings.Timeout(), flagInfo("timeout of the outbound http requests", "", rootEnvs["timeout"]))

	try.To(viper.BindPFlag("logging", flags.Lookup("logging")))
	try.To(viper.BindPFlag("dry-run", flags.Lookup("dry-run")))
	try.To(viper.BindPFlag("service-name", flags.Lookup("service-name")))
	try.To(viper.BindPFlag("timeout", flags.Lookup("timeout")))

	try.To(BindEnvs(rootEnvs, ""))
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	replacer := strings.NewReplacer("-", "_")
	viper.SetEnvKeyReplacer(replacer)
	readConfigFile()
	readBoundRootFlags()
}

func readBoundRootFlags() {
	rootFlags.logging = viper.GetString("logging")
	rootFlags.dryRun = viper.GetBool("dry-run")
	rootFlags.serviceName = viper.GetString("service-name")
	rootFlags.timeout = viper.GetDuration("timeout")
}

func readConfigFile() {
	cfgEnv := os.Getenv(getEnvName("", "config"))
	if rootFlags.cfgFile != "" || cfgEnv != "" {
		printInfo := true
		if rootFlags.cfgFile == "" {
			rootFlags.cfgFile = cfgEnv
			printInfo = false
		}
		viper.SetConfigFile(rootFlags.cfgFile)
		// If a config file is found, read it in.
		if err := viper.ReadInConfig(); err == nil && printInfo {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

// BindEnvs calls viper.BindEnv with envMap and cmdName which can be empty if
// flag is general.
func BindEnvs(envMap map[string]string, cmdName string) (err error) {
	defer err2.Handle(&err)
	for flagKey, envName := range envMap {
		finalEnvName := getEnvName(cmdName, envName)
		try.To(viper.BindEnv(flagKey, finalEnvName))
	}
	return nil
}

func flagInfo(info, cmdPrefix, envName string) string {
	return info + ", " + getEnvName(cmdPrefix, envName)
}

func getEnvName(cmdName, envName string) string {
	if cmdName == "" {
		return envPrefix + "_" + strings.ToUpper(envName)
	}
	return envPrefix + "_" + strings.ToUpper(cmdName) + "_" + envName
}

func handleViperFlags(cmd *cobra.Command) {
	setRequiredStringFlags(cmd)
	if cmd.HasParent() {
		handleViperFlags(cmd.Parent())
	}
}

func setRequiredStringFlags(cmd *cobra.Command) {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	try.To(viper.BindPFlags(cmd.LocalFlags()))
	if cmd.PreRunE != nil {
		try.To(cmd.PreRunE(cmd, nil))
	}
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if viper.GetString(f.Name) != "" {
			try.To(cmd.LocalFlags().Set(f.Name, viper.GetString(f.Name)))
		}
	})
}

// SubCmdNeeded prints the help and error messages because the cmd is abstract.
func SubCmdNeeded(cmd *cobra.Command) {
	fmt.Println("Subcommand needed!")
	_ = cmd.Help()
	os.Exit(1)
}

// run validates and executes the command unless it's a dry run.
func run(c cmds.Command) (err error) {
	defer err2.Handle(&err)

	try.To(c.Validate())
	if !rootFlags.dryRun {
		try.To1(c.Exec(os.Stdout))
	}
	return nil
}
