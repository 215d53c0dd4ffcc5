package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App implements it.
type execIface interface {
	isSignedIn() bool
	SignUp(ctx context.Context) error
	Login(ctx context.Context) error
	Anonymous(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Submit(ctx context.Context, args []string) error
	Top(ctx context.Context, args []string) error
	Watch(ctx context.Context) error
	Unwatch(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Invoke(ctx context.Context, args []string) error
}

var errUsage = errors.New("usage")

// runREPL reads one command per line from reader until EOF, exit or quit.
// Command errors are printed and the loop continues.
//
//	help                               list commands
//	signup | login | anon              authenticate
//	refresh | logout | whoami          manage the session
//	submit <name> <score> <accuracy>   record a run
//	top [n]                            show the leaderboard
//	watch | unwatch                    stream leaderboard changes
//	upload <bucket> <path> <file>      store a file
//	download <bucket> <path> <file>    fetch a file
//	invoke <function> [json]           call an edge function
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("typegame %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isSignedIn() {
				printlnFn("Available commands: submit, top, watch, unwatch, upload, download, invoke, whoami, refresh, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, anon, submit, top, watch, unwatch, invoke, exit")
			}
		case "signup":
			cmdErr = a.SignUp(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "anon":
			cmdErr = a.Anonymous(ctx)
		case "refresh":
			cmdErr = a.Refresh(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "submit":
			cmdErr = a.Submit(ctx, args)
		case "top":
			cmdErr = a.Top(ctx, args)
		case "watch":
			cmdErr = a.Watch(ctx)
		case "unwatch":
			cmdErr = a.Unwatch(ctx)
		case "upload":
			cmdErr = a.Upload(ctx, args)
		case "download":
			cmdErr = a.Download(ctx, args)
		case "invoke":
			cmdErr = a.Invoke(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}
