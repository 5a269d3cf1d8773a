package auth

// roleHierarchy maps each role to its privilege level.
var roleHierarchy = map[UserRole]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	_, ok := roleHierarchy[r]
	return ok
}

// IsAtLeast checks if this role meets the minimum required role level
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	level, ok := roleHierarchy[r]
	if !ok {
		return false
	}

	minLevel, ok := roleHierarchy[minRole]
	if !ok {
		return false
	}

	return level >= minLevel
}

// ParseRole converts a string to a UserRole, reporting whether it is valid
func ParseRole(s string) (UserRole, bool) {
	role := UserRole(s)
	return role, role.IsValid()
}

// ValidRoles returns the set of assignable roles.
func ValidRoles() []UserRole {
	return []UserRole{RoleUser, RoleAdmin}
}
