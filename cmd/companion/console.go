package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/zhouzirui/voice-companion/backend/internal/model/session"
)

// console 把对话记录输出到终端。
type console struct {
	mu   sync.Mutex
	out  io.Writer
	name string
}

func newConsole(out io.Writer, name string) *console {
	return &console{out: out, name: name}
}

func (c *console) greet(relayURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "Talking to %s via %s. Type a line and press Enter; Ctrl-D to quit.\n", c.name, relayURL)
}

func (c *console) StatusChanged(status session.Status) {
	if status != session.StatusProcessing {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s is thinking...\n", c.name)
}

func (c *console) EntryAppended(entry session.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch entry.Role {
	case session.RoleUser:
		fmt.Fprintf(c.out, "You: %s\n", entry.Text)
	case session.RoleAssistant:
		fmt.Fprintf(c.out, "%s: %s\n", c.name, entry.Text)
	default:
		fmt.Fprintf(c.out, "!! %s\n", entry.Text)
	}
}
