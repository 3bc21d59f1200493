package cleaner

import (
	"strings"

	"github.com/pkg/errors"
)

// Policy is the missing value handling strategy of a run.
type Policy int

const (
	PolicyNone Policy = iota
	PolicyDropRows
	PolicyFillMean
	PolicyFillZero
)

var ErrUnknownPolicy = errors.New("unknown missing value policy")

var policyNames = map[Policy]string{
	PolicyNone:     "none",
	PolicyDropRows: "drop",
	PolicyFillMean: "mean",
	PolicyFillZero: "zero",
}

var policyLabels = map[Policy]string{
	PolicyNone:     "Do nothing",
	PolicyDropRows: "Drop rows with missing values",
	PolicyFillMean: "Fill missing numeric values with mean",
	PolicyFillZero: "Fill missing values with zero",
}

var policyAliases = map[string]Policy{
	"":          PolicyNone,
	"nothing":   PolicyNone,
	"drop-rows": PolicyDropRows,
	"dropna":    PolicyDropRows,
	"fill-mean": PolicyFillMean,
	"fill-zero": PolicyFillZero,
}

// Policies lists every policy in display order.
func Policies() []Policy {
	return []Policy{PolicyNone, PolicyDropRows, PolicyFillMean, PolicyFillZero}
}

// String returns the short name of the policy.
func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}

	return "unknown"
}

// Label returns the description shown to users.
func (p Policy) Label() string {
	return policyLabels[p]
}

// ParsePolicy accepts short names, a few aliases and the labels, ignoring case.
func ParsePolicy(s string) (Policy, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for p, name := range policyNames {
		if key == name || key == strings.ToLower(policyLabels[p]) {
			return p, nil
		}
	}
	if p, ok := policyAliases[key]; ok {
		return p, nil
	}

	return PolicyNone, errors.Wrapf(ErrUnknownPolicy, "%q", s)
}

func (p Policy) MarshalText() ([]byte, error) {
	if _, ok := policyNames[p]; !ok {
		return nil, errors.Wrapf(ErrUnknownPolicy, "%d", int(p))
	}

	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed

	return nil
}
