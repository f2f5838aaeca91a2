package weave

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/weave-swap/crypto/bech32"
	"github.com/iov-one/weave-swap/errors"
)

// AddressLength is the length of every address. It must never change during
// the lifetime of a store.
const AddressLength = 20

// AddressHRP is the human readable part used when an address is presented in
// bech32 form.
const AddressHRP = "swap"

// (?s) is needed so that a newline byte in the data section still matches.
var conditionFormat = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)

// Condition describes who may authorize an action. It is a byte string in
// the form
//
//	extension/type/data
//
// Signatures produce a condition from the public key (x/sigs) and programs
// produce one from their seeds (x/pda).
type Condition []byte

// NewCondition joins the three sections of a condition.
func NewCondition(ext, typ string, data []byte) Condition {
	prefix := ext + "/" + typ + "/"
	c := make([]byte, 0, len(prefix)+len(data))
	c = append(c, prefix...)
	return append(c, data...)
}

// Parse extracts the extension, the type and the data of the condition.
func (c Condition) Parse() (ext, typ string, data []byte, err error) {
	m := conditionFormat.FindSubmatch(c)
	if m == nil {
		return "", "", nil, errors.Wrapf(errors.ErrInvalidInput, "condition %X", []byte(c))
	}
	return string(m[1]), string(m[2]), m[3], nil
}

// Address returns the digest of this condition that is used as an account
// identifier.
func (c Condition) Address() Address {
	return NewAddress(c)
}

// Equals returns true if both conditions are byte equal.
func (c Condition) Equals(other Condition) bool {
	return bytes.Equal(c, other)
}

// String keeps the extension and type readable and hex encodes the data.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("invalid condition %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

func (c Condition) Validate() error {
	if !conditionFormat.Match(c) {
		return errors.Wrapf(errors.ErrInvalidInput, "condition %X", []byte(c))
	}
	return nil
}

func (c Condition) MarshalJSON() ([]byte, error) {
	if c == nil {
		return json.Marshal("")
	}
	return json.Marshal(c.String())
}

func (c *Condition) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "condition must be a string")
	}
	return c.parseString(s)
}

func (c *Condition) parseString(s string) error {
	if s == "" {
		*c = nil
		return nil
	}
	parts := strings.SplitN(s, "/", 3)
	if len(parts) != 3 {
		return errors.Wrap(errors.ErrInvalidInput, "condition must have three sections")
	}
	data, err := hex.DecodeString(parts[2])
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "condition data: %s", err)
	}
	cond := NewCondition(parts[0], parts[1], data)
	if err := cond.Validate(); err != nil {
		return err
	}
	*c = cond
	return nil
}

// Address is the truncated sha256 digest of a Condition. Wallets, escrows
// and vaults are all keyed by an address.
type Address []byte

// NewAddress hashes and truncates given data.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return Address(h[:AddressLength])
}

func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Clone returns a copy that does not share memory with the original.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(Address(nil), a...)
}

func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 returns the address encoded with the AddressHRP prefix.
func (a Address) Bech32() (string, error) {
	return bech32.EncodeAddress(AddressHRP, a)
}

// Validate returns an error if the address does not have the required
// length.
func (a Address) Validate() error {
	if len(a) == 0 {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInvalidInput, "address length %d", len(a))
	}
	return nil
}

// MarshalJSON uses upper case hex instead of the default base64.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

// UnmarshalJSON accepts a hex encoded address, or a prefixed form:
//
//	hex:<hex>
//	cond:<ext>/<type>/<hex data>
//	bech32:<bech32 string>
func (a *Address) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, "address must be a string")
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes the human readable forms accepted by
// Address.UnmarshalJSON. An empty string results in a nil address.
func ParseAddress(s string) (Address, error) {
	format, enc := "hex", s
	if i := strings.Index(s, ":"); i >= 0 {
		format, enc = s[:i], s[i+1:]
	}
	if enc == "" {
		return nil, nil
	}

	var addr Address
	switch format {
	case "hex":
		b, err := hex.DecodeString(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "hex address: %s", err)
		}
		addr = b
	case "cond":
		var c Condition
		if err := c.parseString(enc); err != nil {
			return nil, err
		}
		addr = c.Address()
	case "bech32":
		payload, err := bech32.DecodeAddress(AddressHRP, enc)
		if err != nil {
			return nil, err
		}
		addr = payload
	default:
		return nil, errors.Wrapf(errors.ErrInvalidType, "unknown address format %q", format)
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}
