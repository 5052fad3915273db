package state

import (
	"fmt"
	"regexp"
)

var (
	// namespaceRegex validates datapack namespaces
	namespaceRegex = regexp.MustCompile(`^[a-z0-9_.-]+$`)

	// resourceIDRegex validates resource locations (e.g., "minecraft:armor_stand", "armor_stand")
	resourceIDRegex = regexp.MustCompile(`^(?:[a-z0-9_.-]+:)?[a-z0-9_./-]+$`)

	// identifierRegex validates scoreboard objective and entity tag names
	identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_.+-]+$`)
)

// ValidateNamespace validates a datapack namespace.
// Rules:
// - Must not be empty
// - Must contain only lowercase letters, digits, underscores, dots and hyphens
// - Must not be "minecraft" (the function tags live there)
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return fmt.Errorf("namespace cannot be empty")
	}

	if !namespaceRegex.MatchString(namespace) {
		return fmt.Errorf("namespace must contain only lowercase letters, digits, '_', '.' and '-': %q", namespace)
	}

	if namespace == "minecraft" {
		return fmt.Errorf("namespace cannot be %q", namespace)
	}

	return nil
}

// ValidateResourceID validates an item or entity id with optional namespace.
func ValidateResourceID(id string) error {
	if id == "" {
		return fmt.Errorf("resource id cannot be empty")
	}

	if !resourceIDRegex.MatchString(id) {
		return fmt.Errorf("invalid resource id: %q", id)
	}

	return nil
}

// ValidateIdentifier validates a scoreboard objective or entity tag name.
// Objective names are limited to 16 characters by older game versions.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}

	if len(name) > 16 {
		return fmt.Errorf("identifier must be 16 characters or less, got %d", len(name))
	}

	if !identifierRegex.MatchString(name) {
		return fmt.Errorf("identifier must contain only letters, digits, '_', '.', '+' and '-': %q", name)
	}

	return nil
}
