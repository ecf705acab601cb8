// Package collect gathers operator answers for a new cache node and turns
// them into a deployable configuration.
package collect

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"popctl/pkg/model"
)

// Collector drives the interactive install questionnaire. In and Out are
// injected so tests can script a session; Locate supplies the geolocation
// lookup and InviteDefault seeds the invite prompt from the environment.
type Collector struct {
	In            io.Reader
	Out           io.Writer
	Locate        func() (string, error)
	InviteDefault string
}

// Run walks the operator through the questionnaire and returns the assembled
// node configuration plus the normalized invite code. Empty answers keep the
// shown default; answers are otherwise accepted as typed.
func (c *Collector) Run() (model.NodeConfig, string) {
	r := bufio.NewReader(c.In)
	cfg := model.NewNodeConfig()

	if c.Locate != nil {
		loc, err := c.Locate()
		if err != nil {
			log.Printf("location lookup failed: %v", err)
		}
		cfg.PopLocation = loc
		if loc != "" {
			fmt.Fprintf(c.Out, "detected location: %s\n", loc)
		}
	}

	cfg.PopName = c.ask(r, "PoP name", "pop-node")
	cfg.Identity.NodeName = c.ask(r, "Node name", cfg.PopName)
	cfg.Identity.Name = c.ask(r, "Operator name", "")
	cfg.Identity.Email = c.ask(r, "Email", "")
	cfg.Identity.Discord = c.ask(r, "Discord handle", "")
	cfg.Identity.Telegram = c.ask(r, "Telegram handle", "")
	cfg.Identity.SolanaPubkey = c.ask(r, "Solana wallet address", "")

	cfg.CacheConfig.MemoryCacheSizeMB = c.askInt(r, "Memory cache size in MB", model.DefaultMemoryMB)
	cfg.CacheConfig.DiskCacheSizeGB = c.askInt(r, "Disk cache size in GB", model.DefaultDiskGB)

	invite := c.ask(r, "Invite code", c.InviteDefault)
	return cfg, NormalizeInvite(invite)
}

// ask prints a prompt with an optional default and returns the trimmed
// answer. EOF counts as an empty answer so piped input falls back to the
// defaults instead of failing the install.
func (c *Collector) ask(r *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Fprintf(c.Out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(c.Out, "%s: ", label)
	}
	line, _ := r.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func (c *Collector) askInt(r *bufio.Reader, label string, def int) int {
	raw := c.ask(r, label, strconv.Itoa(def))
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
