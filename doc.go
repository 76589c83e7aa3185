/*
Package main is the findy-a2a application. It runs a DIDComm agent which makes
pairwise connections with other Aries compatible agents with the connections
protocol and exchanges messages over them: trust pings, basic messages and
challenges.

Every inbound message goes through the same pipeline. The envelope is
decrypted with the keys of the agent's wallet, the message type is resolved
from the @type field to a Go struct, the connection is found by the key the
message was sent to, and the handler registered for the type processes it. A
reply, if any, is packed to the other end's keys and sent to its endpoint.

# Usage

	findy-a2a agent invitation --name alice --url
	findy-a2a agent serve --name alice --server-port 8090
	findy-a2a agent connect --name bob --host-address http://localhost:8091 \
		--server-port 8091 --wait 30s <invitation URL>
	findy-a2a agent send --name bob --connection-id <id> --msg "Hello"

All the flags can be given as FA2A_ prefixed environment variables or in the
configuration file given with --config.

# Sub-packages

	agent    the pipeline: codec, envelope crypto, connections, processor
	cmd      the cobra CLI
	cmds     the command implementations the CLI uses
	protocol the protocol handlers
	server   the http endpoint and the invitation janitor
	std      the message models of the Aries protocols
*/
package main
