package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/vulpemventures/coinselect/internal/core/application"
)

var colorRed = string("\033[31m")

type coinInfo struct {
	Outpoint string `json:"outpoint"`
	Value    int64  `json:"value"`
	Status   string `json:"status"`
	Sequence uint64 `json:"sequence"`
}

type selectionInfo struct {
	Tier         string     `json:"tier"`
	Coins        []coinInfo `json:"coins"`
	InputAmount  int64      `json:"input_amount"`
	OutputAmount int64      `json:"output_amount"`
	ChangeAmount int64      `json:"change_amount"`
	Fee          int64      `json:"fee"`
	FeePerByte   float64    `json:"fee_per_byte"`
	Size         int        `json:"size"`
}

func printSelection(info *application.SelectionInfo) error {
	outpoints, err := info.OutPoints()
	if err != nil {
		return err
	}

	coins := make([]coinInfo, 0, len(info.Coins))
	for i, c := range info.Coins {
		coins = append(coins, coinInfo{
			Outpoint: outpoints[i].String(),
			Value:    int64(c.Value),
			Status:   c.TrustState.String(),
			Sequence: c.Sequence,
		})
	}
	return printJSON(selectionInfo{
		Tier:         info.Tier.String(),
		Coins:        coins,
		InputAmount:  int64(info.InputAmount),
		OutputAmount: int64(info.OutputAmount),
		ChangeAmount: int64(info.ChangeAmount),
		Fee:          int64(info.Fee),
		FeePerByte:   info.FeeRate,
		Size:         info.Size,
	})
}

func printJSON(v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %s", err)
	}
	fmt.Println(string(buf))
	return nil
}

func amountFlag(v int64) btcutil.Amount {
	return btcutil.Amount(v)
}

func cleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	return filepath.Clean(os.ExpandEnv(path))
}

func printErr(err error) {
	msg := fmt.Sprintf("%s%s", colorRed, capitalize(err.Error()))
	fmt.Fprintln(os.Stderr, msg)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	ss := strings.ToUpper(s[0:1])
	ss += s[1:]
	return ss
}

func formatVersion() string {
	return fmt.Sprintf(
		"\nVersion: %s\nCommit: %s\nDate: %s", version, commit, date,
	)
}
