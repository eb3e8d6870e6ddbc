package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Claims records which input owns each output path during one run and
// hands out " - dupN" variants when a second input asks for a claimed path.
// Not safe for concurrent use; the pipeline processes one file at a time.
type Claims struct {
	owners map[string]string // output path → owning input path
}

// NewClaims returns an empty claim set.
func NewClaims() *Claims {
	return &Claims{owners: make(map[string]string)}
}

// Claim returns the output path input should write. The requested path is
// returned unchanged when it is free or already owned by input.
func (c *Claims) Claim(input, requested string) string {
	if owner, ok := c.owners[requested]; !ok || owner == input {
		c.owners[requested] = input
		return requested
	}

	dir := filepath.Dir(requested)
	ext := filepath.Ext(requested)
	stem := strings.TrimSuffix(filepath.Base(requested), ext)

	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, n, ext))
		if owner, ok := c.owners[candidate]; !ok || owner == input {
			c.owners[candidate] = input
			return candidate
		}
	}
}
