package domain

// Credential is the login identity stored under Credentials/{email}
type Credential struct {
	UserID       string `json:"uid"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PasswordHash string `json:"passwordHash"`
}

// Document returns the field map written to the document store
func (c Credential) Document() map[string]any {
	return map[string]any{
		"uid":          c.UserID,
		"email":        c.Email,
		"displayName":  c.DisplayName,
		"passwordHash": c.PasswordHash,
	}
}

// CredentialFromDocument rebuilds a credential from a stored field map
func CredentialFromDocument(data map[string]any) Credential {
	return Credential{
		UserID:       stringField(data, "uid"),
		Email:        stringField(data, "email"),
		DisplayName:  stringField(data, "displayName"),
		PasswordHash: stringField(data, "passwordHash"),
	}
}
