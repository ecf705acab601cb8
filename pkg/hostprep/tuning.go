package hostprep

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const sysctlConf = `# pop-node network tuning, written by popctl install
net.core.somaxconn = 65535
net.core.netdev_max_backlog = 65535
net.core.rmem_max = 134217728
net.core.wmem_max = 134217728
net.ipv4.tcp_rmem = 4096 87380 134217728
net.ipv4.tcp_wmem = 4096 65536 134217728
net.ipv4.tcp_fastopen = 3
net.ipv4.tcp_window_scaling = 1
fs.file-max = 1048576
`

const limitsConf = `# pop-node file descriptor limits, written by popctl install
* soft nofile 1048576
* hard nofile 1048576
root soft nofile 1048576
root hard nofile 1048576
`

// Tuner writes the kernel network parameters and file-descriptor limits the
// cache node needs, then loads the sysctl set into the running kernel. The
// files outlive this process; popctl never reverts them.
type Tuner struct {
	SysctlFile string
	LimitsFile string
	run        func(name string, args ...string) error
}

func NewTuner() *Tuner {
	return &Tuner{
		SysctlFile: "/etc/sysctl.d/99-pop-node.conf",
		LimitsFile: "/etc/security/limits.d/99-pop-node.conf",
		run:        execRun,
	}
}

// Apply writes both tuning files and applies the sysctl parameters. Callers
// treat a returned error as a warning: the install continues without tuning.
func (t *Tuner) Apply() error {
	log.Printf("writing kernel tuning: sysctl=%s limits=%s (persists beyond this tool)", t.SysctlFile, t.LimitsFile)
	if err := writeConf(t.SysctlFile, sysctlConf); err != nil {
		return fmt.Errorf("write sysctl config: %w", err)
	}
	if err := writeConf(t.LimitsFile, limitsConf); err != nil {
		return fmt.Errorf("write limits config: %w", err)
	}
	if err := t.run("sysctl", "-p", t.SysctlFile); err != nil {
		return fmt.Errorf("apply sysctl settings: %w", err)
	}
	return nil
}

func writeConf(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
