package shared

import "fmt"

// ValidateCode checks a business code: 1 to 50 letters, digits, '_' or '-'.
func ValidateCode(kind, code string) error {
	if code == "" {
		return NewDomainError("INVALID_CODE", fmt.Sprintf("%s code cannot be empty", kind))
	}
	if len(code) > 50 {
		return NewDomainError("INVALID_CODE", fmt.Sprintf("%s code cannot exceed 50 characters", kind))
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return NewDomainError("INVALID_CODE", fmt.Sprintf("%s code can only contain letters, numbers, underscores, and hyphens", kind))
		}
	}
	return nil
}

// ValidateName checks a display name is present and at most maxLen bytes.
func ValidateName(kind, name string, maxLen int) error {
	if name == "" {
		return NewDomainError("INVALID_NAME", fmt.Sprintf("%s name cannot be empty", kind))
	}
	if len(name) > maxLen {
		return NewDomainError("INVALID_NAME", fmt.Sprintf("%s name cannot exceed %d characters", kind, maxLen))
	}
	return nil
}
