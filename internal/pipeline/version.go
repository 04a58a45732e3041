package pipeline

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ContractVersion is the version of the hook contract implemented by Driver.
const ContractVersion = "1.0.0"

// ErrIncompatiblePlugin is returned when a plugin requires a contract
// version the host does not provide.
var ErrIncompatiblePlugin = errors.New("incompatible plugin")

// Versioned is implemented by plugins that constrain the contract version.
type Versioned interface {
	// Requires returns a semver constraint such as ">=1.0.0, <2.0.0".
	Requires() string
}

// CheckCompatible reports whether p accepts the given contract version.
// Plugins that do not implement Versioned accept any version.
func CheckCompatible(p Plugin, contract string) error {
	v, ok := p.(Versioned)
	if !ok {
		return nil
	}

	constraint, err := semver.NewConstraint(v.Requires())
	if err != nil {
		return fmt.Errorf("plugin %s: parsing contract constraint %q: %w", p.Name(), v.Requires(), err)
	}
	version, err := semver.NewVersion(contract)
	if err != nil {
		return fmt.Errorf("parsing contract version %q: %w", contract, err)
	}
	if !constraint.Check(version) {
		return fmt.Errorf("%w: %s requires contract %s, host provides %s",
			ErrIncompatiblePlugin, p.Name(), v.Requires(), contract)
	}
	return nil
}
