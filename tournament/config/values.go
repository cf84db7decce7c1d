/* values.go
 * Helpers for parsing loosely typed configuration values
 */

package config

import (
	"fmt"
	"strings"
)

// parseBool converts yes/no, true/false and on/off (case insensitive) into a boolean
// Preconditions: Receives a string
// Postconditions: Returns boolean value or an error if the string is not one of the accepted words
func parseBool(str string) (bool, error) {
	str = strings.TrimSpace(str)
	str = strings.ToLower(str)

	switch str {
	case "yes", "true", "on":
		return true, nil
	case "no", "false", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean string")
}
