package validator

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress validates a user-supplied EVM address and returns its
// lowercase form. Mixed-case input is accepted; checksum casing is not
// enforced.
func NormalizeAddress(input string) (string, error) {
	addr := strings.TrimSpace(input)
	if addr == "" {
		return "", fmt.Errorf("address is empty")
	}
	if !common.IsHexAddress(addr) {
		return "", fmt.Errorf("invalid EVM address: %s", addr)
	}
	return strings.ToLower(addr), nil
}

// Truncate shortens an address for display, e.g. 0x1234...abcd.
func Truncate(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
