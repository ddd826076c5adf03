package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/buildplan/internal/model"
)

var (
	// ErrSessionClosed is returned when a session that has left the
	// declaration phase receives another declaration.
	ErrSessionClosed = errors.New("session is no longer accepting declarations")
	// ErrDeclarationClosed is returned when a plugin is applied after the
	// extension registry was closed.
	ErrDeclarationClosed = errors.New("declaration phase is closed")
	// ErrFrozen is returned when a frozen dependency set is modified.
	ErrFrozen = errors.New("dependency set is frozen")
)

// Error is implemented by every fatal resolution error.
type Error interface {
	error
	Kind() Kind
	Subject() string
	Position() model.Pos
}

// FromError converts a fatal resolution error into a Diagnostic. Errors that
// do not implement Error are reported as InvalidConfiguration.
func FromError(err error) Diagnostic {
	var rerr Error
	if errors.As(err, &rerr) {
		return Diagnostic{
			Severity: SeverityError,
			Kind:     rerr.Kind(),
			Key:      rerr.Subject(),
			Pos:      rerr.Position(),
			Summary:  rerr.Error(),
		}
	}
	return Diagnostic{
		Severity: SeverityError,
		Kind:     KindInvalidConfiguration,
		Summary:  err.Error(),
	}
}

// DuplicatePluginError is returned when a plugin is applied twice.
type DuplicatePluginError struct {
	PluginID string
	First    model.Pos
	Pos      model.Pos
}

func (e *DuplicatePluginError) Error() string {
	return fmt.Sprintf("plugin %q is already applied (first applied at %s)", e.PluginID, e.First)
}
func (e *DuplicatePluginError) Kind() Kind          { return KindDuplicatePlugin }
func (e *DuplicatePluginError) Subject() string     { return e.PluginID }
func (e *DuplicatePluginError) Position() model.Pos { return e.Pos }

// UnknownExtensionError is returned when a block or reference names an
// extension no applied plugin contributed.
type UnknownExtensionError struct {
	Extension string
	Key       string
	Requester string
	Pos       model.Pos
}

func (e *UnknownExtensionError) Error() string {
	msg := fmt.Sprintf("unknown extension %q", e.Extension)
	if e.Key != "" {
		msg += fmt.Sprintf(" referenced by %q", e.Key)
	}
	if e.Requester != "" && e.Requester != e.Key {
		msg += fmt.Sprintf(" while resolving %q", e.Requester)
	}
	return msg + "; apply the plugin that provides it first"
}
func (e *UnknownExtensionError) Kind() Kind          { return KindUnknownExtension }
func (e *UnknownExtensionError) Subject() string     { return e.Key }
func (e *UnknownExtensionError) Position() model.Pos { return e.Pos }

// UnresolvedPropertyError is returned when a property has no value in any
// layer and no default function.
type UnresolvedPropertyError struct {
	Key       string
	Requester string
	Pos       model.Pos
}

func (e *UnresolvedPropertyError) Error() string {
	if e.Requester != "" && e.Requester != e.Key {
		return fmt.Sprintf("property %q requested by %q has no value and no default", e.Key, e.Requester)
	}
	return fmt.Sprintf("property %q has no value and no default", e.Key)
}
func (e *UnresolvedPropertyError) Kind() Kind          { return KindUnresolvedProperty }
func (e *UnresolvedPropertyError) Subject() string     { return e.Key }
func (e *UnresolvedPropertyError) Position() model.Pos { return e.Pos }

// CyclicReferenceError is returned when a reference chain revisits a key.
type CyclicReferenceError struct {
	Chain []string
	Pos   model.Pos
}

func (e *CyclicReferenceError) Error() string {
	return "cyclic reference: " + strings.Join(e.Chain, " -> ")
}
func (e *CyclicReferenceError) Kind() Kind { return KindCyclicReference }
func (e *CyclicReferenceError) Subject() string {
	if len(e.Chain) == 0 {
		return ""
	}
	return e.Chain[0]
}
func (e *CyclicReferenceError) Position() model.Pos { return e.Pos }

// UnknownSigningConfigError is returned when a variant names a signing
// config that was never declared.
type UnknownSigningConfigError struct {
	Name    string
	Variant string
	Pos     model.Pos
}

func (e *UnknownSigningConfigError) Error() string {
	return fmt.Sprintf("build type %q references unknown signing config %q", e.Variant, e.Name)
}
func (e *UnknownSigningConfigError) Kind() Kind          { return KindUnknownSigningConfig }
func (e *UnknownSigningConfigError) Subject() string     { return e.Name }
func (e *UnknownSigningConfigError) Position() model.Pos { return e.Pos }

// InvalidConfigurationError is returned when a global invariant is violated.
type InvalidConfigurationError struct {
	Invariant string
	Key       string
	Detail    string
	Pos       model.Pos
}

func (e *InvalidConfigurationError) Error() string {
	msg := fmt.Sprintf("invariant %q violated", e.Invariant)
	if e.Key != "" {
		msg += fmt.Sprintf(" by %q", e.Key)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
func (e *InvalidConfigurationError) Kind() Kind          { return KindInvalidConfiguration }
func (e *InvalidConfigurationError) Subject() string     { return e.Key }
func (e *InvalidConfigurationError) Position() model.Pos { return e.Pos }

// VersionConflict records a dependency redeclared with a different version.
// It is a warning, never an error.
type VersionConflict struct {
	Key         model.DependencyKey
	Previous    string
	Current     string
	PreviousPos model.Pos
	Pos         model.Pos
}

// Diagnostic converts the conflict into a warning.
func (c VersionConflict) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Kind:     KindVersionConflict,
		Key:      c.Key.String(),
		Pos:      c.Pos,
		Summary:  fmt.Sprintf("%s redeclared with version %q (was %q); keeping %q", c.Key, c.Current, c.Previous, c.Current),
		Detail:   fmt.Sprintf("Previous declaration at %s.", c.PreviousPos),
	}
}
