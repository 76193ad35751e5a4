package cli

import (
	"context"
	"fmt"
)

// Run выполняет команду CLI
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "decode":
		return c.runDecode(args)
	case "session":
		return c.runSession(ctx, args)
	case "status":
		return c.runStatus(ctx)
	case "end":
		return c.runEnd(ctx)
	case "options":
		return c.runOptions(ctx, args)
	case "scan":
		return c.runScan(ctx, args)
	case "history":
		return c.runHistory(ctx, args)
	case "clear":
		return c.runClear(ctx, args)
	case "export":
		return c.runExport(ctx, args)
	case "help":
		PrintUsage(c.io)
		return nil
	default:
		PrintUsage(c.io)
		return fmt.Errorf("unknown command: %s", command)
	}
}
