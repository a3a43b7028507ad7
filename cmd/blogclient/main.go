package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"microblog/client"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	baseURL := flag.String("base-url", "http://localhost:5000", "backend base URL")
	location := flag.String("location", "/", "initial location")
	flag.Parse()

	env := client.NewLocationFeed(*location)
	program := client.NewProgram(client.NewAPI(*baseURL), env)
	program.OnUpdate(func(m client.Model) error {
		out, err := m.Render()
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go readCommands(ctx, env, program)

	return program.Run(ctx)
}

// readCommands turns stdin lines into navigation and form input:
//
//	/about         navigate to a location
//	title <text>   set the title draft
//	body <text>    set the body draft
//	submit         create a post from the drafts
func readCommands(ctx context.Context, env *client.LocationFeed, program *client.Program) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "/"):
			env.Navigate(line)
		case strings.HasPrefix(line, "title "):
			program.Dispatch(client.TitleUpdated{Value: strings.TrimPrefix(line, "title ")})
		case strings.HasPrefix(line, "body "):
			program.Dispatch(client.BodyUpdated{Value: strings.TrimPrefix(line, "body ")})
		case line == "submit":
			program.Dispatch(client.SubmitPost{})
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n", line)
		}
	}
}
