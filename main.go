package main

import (
	"github.com/findy-network/findy-a2a/agent/utils"
	"github.com/findy-network/findy-a2a/cmd"
	"github.com/golang/glog"
)

var versionInfo = "Findy A2A v. " + utils.Version

func main() {
	defer glog.Flush()

	utils.Settings.SetVersionInfo(versionInfo)
	cmd.Execute()
}
