// Package tui provides the terminal user interface for the interactive command.
//
// The interactive app is a read-eval-print loop: each line typed at the
// prompt is sent to the orchestrator and the compact report is appended to
// the transcript. While a request runs, a spinner shows the latest
// orchestrator event.
//
// Built-in commands:
//   - help   lists the commands
//   - agents lists the discovered agents
//   - exit   leaves interactive mode (also quit, Ctrl+C)
//
// Usage:
//
//	program, app := tui.NewInteractiveProgram(ctx, orch, orch.Events())
//	_, err := program.Run()
//
//	// Announce a re-discovery triggered outside the program
//	program.Send(tui.AgentsReloadedMsg{Count: n})
package tui
