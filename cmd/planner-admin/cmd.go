package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword

	errHelp = errors.New("help provided")
)

type passwordResetter interface {
	ResetPassword(ctx context.Context, email, password string) error
}

type commandLine struct {
	users passwordResetter
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset a user's password")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	resetCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetCmd.SetOutput(cli.out)
	email := resetCmd.String("email", "", "The user's email. The password will be prompted next.")

	switch args[1] {
	case "resetpassword":
		if err := resetCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *email == "" {
			resetCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetCmd.Usage()
			return errHelp
		}
		if err := cli.users.ResetPassword(ctx, *email, string(pwd)); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "password updated for %s\n", *email)
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}
