package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"popctl/pkg/backup"
	"popctl/pkg/collect"
	"popctl/pkg/deploy"
	"popctl/pkg/engine"
	"popctl/pkg/hostprep"
	"popctl/pkg/journal"
	"popctl/pkg/model"
	"popctl/pkg/netx"
	"popctl/pkg/render"
	"popctl/pkg/ui"
	"popctl/pkg/version"
)

const defaultStateDir = "/var/lib/pop-node"

func main() {
	_ = loadDotEnv()

	args := os.Args[1:]
	cmd := "install"
	if len(args) > 0 {
		switch {
		case args[0] == "help" || args[0] == "-h" || args[0] == "--help":
			usage()
			return
		case strings.HasPrefix(args[0], "-"):
			// bare flags go to the default install command
		default:
			cmd = args[0]
			args = args[1:]
		}
	}

	ctx := context.Background()

	var err error
	switch cmd {
	case "install":
		err = runInstall(ctx, args)
	case "backup":
		err = runBackup(ctx, args)
	case "restore":
		err = runRestore(ctx, args)
	case "status":
		err = runStatus(ctx, args)
	case "history":
		err = runHistory(args)
	case "version":
		fmt.Printf("popctl version=%s\n", version.Build)
	default:
		ui.Error("unknown command: %s", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		ui.Error("%s failed: %v", cmd, err)
		os.Exit(1)
	}
}

func runInstall(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("install", flag.ExitOnError)
	stateDir := fs.String("state-dir", getenv("POP_STATE_DIR", defaultStateDir), "node state directory")
	fs.Parse(args)

	j := openJournal()
	defer j.Close()

	ui.Info("checking prerequisites")
	if err := hostprep.EnsurePrerequisites(ctx, engine.NewAptGet()); err != nil {
		j.Record("install", "prerequisites", "failed")
		return err
	}
	ui.Success("prerequisites present")

	if err := hostprep.NewTuner().Apply(); err != nil {
		ui.Warn("system tuning failed, continuing: %v", err)
	} else {
		ui.Success("system limits tuned")
	}

	ui.Warn("freeing ports 80 and 443; anything bound to them will be killed")
	hostprep.ReclaimPorts(80, 443)

	col := &collect.Collector{
		In:            os.Stdin,
		Out:           os.Stdout,
		Locate:        netx.Location,
		InviteDefault: os.Getenv("POP_INVITE_CODE"),
	}
	cfg, invite := col.Run()

	if err := render.WriteConfig(*stateDir, cfg); err != nil {
		j.Record("install", "write config", "failed")
		return err
	}
	ui.Success("config written: %s", filepath.Join(*stateDir, render.ConfigFileName))

	ui.Info("fetching node binary")
	if err := deploy.FetchBinary(ctx, *stateDir); err != nil {
		j.Record("install", "fetch binary", "failed")
		return err
	}

	rt := engine.DockerCLI{}
	if err := deploy.Deploy(ctx, rt, *stateDir, invite); err != nil {
		j.Record("install", "deploy", "failed")
		return err
	}
	j.Record("install", "pop="+cfg.PopName, "ok")

	summarize(ctx, rt, *stateDir)
	return nil
}

func runBackup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	stateDir := fs.String("state-dir", getenv("POP_STATE_DIR", defaultStateDir), "node state directory")
	outDir := fs.String("out", getenv("POP_BACKUP_DIR", "."), "directory to write the archive to")
	fs.Parse(args)

	j := openJournal()
	defer j.Close()

	archive, err := backup.Run(ctx, backup.Options{
		StateDir: *stateDir,
		OutDir:   *outDir,
		Confirm:  os.Stdin,
		Out:      os.Stdout,
	})
	if err != nil {
		j.Record("backup", "", "failed")
		return err
	}
	j.Record("backup", filepath.Base(archive), "ok")
	ui.Success("backup kept at %s", archive)
	return nil
}

func runRestore(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	stateDir := fs.String("state-dir", getenv("POP_STATE_DIR", defaultStateDir), "node state directory")
	fs.Parse(args)
	if fs.NArg() != 1 {
		ui.Error("usage: popctl restore [-state-dir DIR] <archive.tar.gz>")
		os.Exit(2)
	}
	archive := fs.Arg(0)

	j := openJournal()
	defer j.Close()

	rt := engine.DockerCLI{}
	if err := backup.Restore(ctx, rt, archive, *stateDir, os.Getenv("POP_INVITE_CODE")); err != nil {
		j.Record("restore", filepath.Base(archive), "failed")
		return err
	}
	j.Record("restore", filepath.Base(archive), "ok")
	ui.Success("restore complete")

	summarize(ctx, rt, *stateDir)
	return nil
}

func runStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	stateDir := fs.String("state-dir", getenv("POP_STATE_DIR", defaultStateDir), "node state directory")
	fs.Parse(args)

	rt := engine.DockerCLI{}
	state, err := rt.Status(ctx, deploy.ContainerName)
	if err != nil {
		state = "not deployed"
	}
	ui.Info("container %s: %s", deploy.ContainerName, state)

	cfgPath := filepath.Join(*stateDir, render.ConfigFileName)
	b, err := os.ReadFile(cfgPath)
	if err != nil {
		ui.Warn("no node config at %s", cfgPath)
	} else {
		var cfg model.NodeConfig
		if err := json.Unmarshal(b, &cfg); err != nil {
			ui.Warn("config at %s unreadable: %v", cfgPath, err)
		} else {
			ui.Info("pop=%s location=%s node=%s", cfg.PopName, cfg.PopLocation, cfg.Identity.NodeName)
			ui.Info("cache memory=%dMB disk=%dGB path=%s",
				cfg.CacheConfig.MemoryCacheSizeMB, cfg.CacheConfig.DiskCacheSizeGB, cfg.CacheConfig.DiskCachePath)
		}
	}

	if ip := netx.PublicIP(); ip != "" {
		ui.Info("public ip: %s", ip)
	}
	return nil
}

func runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "number of operations to show")
	fs.Parse(args)

	j, err := journal.Open(journal.DefaultPath)
	if err != nil {
		return err
	}
	defer j.Close()

	ops, err := j.Recent(*limit)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		ui.Info("no recorded operations")
		return nil
	}
	for _, op := range ops {
		detail := op.Detail
		if detail != "" {
			detail = "  " + detail
		}
		fmt.Printf("%s  %-8s %-6s%s\n", op.Timestamp.Format("2006-01-02 15:04:05"), op.Action, op.Status, detail)
	}
	return nil
}

func summarize(ctx context.Context, rt engine.ContainerRuntime, stateDir string) {
	state, err := rt.Status(ctx, deploy.ContainerName)
	if err != nil {
		state = "unknown"
	}
	ui.Success("node container %s is %s", deploy.ContainerName, state)
	if ip := netx.PublicIP(); ip != "" {
		ui.Info("serving on http://%s and https://%s", ip, ip)
	}
	ui.Info("state directory: %s", stateDir)
}

// openJournal opens the operation journal, or returns nil when it cannot.
// A nil journal records nothing.
func openJournal() *journal.Journal {
	j, err := journal.Open(journal.DefaultPath)
	if err != nil {
		log.Printf("journal unavailable: %v", err)
		return nil
	}
	return j
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

func usage() {
	fmt.Print(`popctl provisions and operates a PoP cache node in docker.

usage:
  popctl [install]           provision this host and deploy the node (default)
  popctl backup [-out DIR]   archive node state and serve it for download
  popctl restore <archive>   stop the node, wipe state, unpack, redeploy
  popctl status              show container state and config summary
  popctl history [-limit N]  show recent operations
  popctl version             print the build version

install, backup, restore and status accept -state-dir DIR
(default ` + defaultStateDir + `, env POP_STATE_DIR).

environment:
  POP_STATE_DIR    node state directory override
  POP_BACKUP_DIR   default directory for backup archives
  POP_INVITE_CODE  invite code, pre-seeds the install prompt and restore
`)
}
