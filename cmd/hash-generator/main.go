// Command hash-generator prints bcrypt hashes produced by the same hasher
// the accounts service uses, for seeding or resetting accounts by hand.
//
// Passwords are read from the arguments, or one per line from stdin when no
// argument is given.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/accounts-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Parse()

	passwords := flag.Args()
	if len(passwords) == 0 {
		var err error
		passwords, err = readLines(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read passwords: %v\n", err)
			os.Exit(1)
		}
	}

	if err := hashAll(os.Stdout, auth.NewBcryptHasher(*cost), passwords); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// hashAll writes one hash per line, in input order. It stops at the first
// password the hasher rejects.
func hashAll(w io.Writer, hasher auth.PasswordHasher, passwords []string) error {
	for i, password := range passwords {
		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("password %d: %w", i+1, err)
		}
		if _, err := fmt.Fprintln(w, hash); err != nil {
			return err
		}
	}
	return nil
}
