package utils

// Version is the version of this build. It's set by the linker in release
// builds: -ldflags "-X github.com/findy-network/findy-a2a/agent/utils.Version=..."
var Version = "0.1.0-dev"
