package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// readLine reads one trimmed line; ok is false when stdin is closed.
func (a *App) readLine(prompt string) (string, bool) {
	fmt.Fprint(a.out, prompt)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

// readChoice keeps asking until it gets an integer, like the classic
// menu loop.
func (a *App) readChoice() (int, bool) {
	for {
		line, ok := a.readLine("Please make your choice: ")
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(a.out, "Your input is invalid!")
			continue
		}
		return n, true
	}
}

func (a *App) readInt(prompt string) (int, bool) {
	line, ok := a.readLine(prompt)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		fmt.Fprintln(a.out, "Error: please enter a numeric value.")
		return 0, false
	}
	return n, true
}

func (a *App) readDecimal(prompt string) (decimal.Decimal, bool) {
	line, ok := a.readLine(prompt)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(line)
	if err != nil {
		fmt.Fprintln(a.out, "Error: please enter a valid amount.")
		return decimal.Zero, false
	}
	return d, true
}

// confirm asks a yes/no question; anything but "yes" is no.
func (a *App) confirm(prompt string) bool {
	line, ok := a.readLine(prompt + " Type yes or no: ")
	if !ok {
		return false
	}
	return strings.EqualFold(line, "yes")
}
