// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"errors"
	"strings"
)

// decodeFixed decodes s, with optional 0x prefix, into exactly len(dst) bytes.
// dst is left untouched on error.
func decodeFixed(dst []byte, s string) error {
	switch len(s) {
	case len(dst) * 2:
	case len(dst)*2 + 2:
		if strings.ToLower(s[:2]) != "0x" {
			return errors.New("invalid prefix")
		}
		s = s[2:]
	default:
		return errors.New("invalid length")
	}
	buf := make([]byte, len(dst))
	if _, err := hex.Decode(buf, []byte(s)); err != nil {
		return err
	}
	copy(dst, buf)
	return nil
}
