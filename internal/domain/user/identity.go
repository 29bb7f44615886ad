package user

// Preferences are the shopper's communication and sizing choices
type Preferences struct {
	Newsletter         bool     `json:"newsletter"`
	SMSUpdates         bool     `json:"sms_updates"`
	PreferredSize      string   `json:"preferred_size"`
	FavoriteCategories []string `json:"favorite_categories"`
}

// Identity is the signed-in shopper as exposed to session state. It never
// carries a password.
type Identity struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Phone       string      `json:"phone"`
	DateJoined  string      `json:"date_joined"`
	Preferences Preferences `json:"preferences"`
}

// FullName joins first and last name
func (i Identity) FullName() string {
	switch {
	case i.FirstName == "":
		return i.LastName
	case i.LastName == "":
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}

func (i Identity) clone() Identity {
	c := i
	if i.Preferences.FavoriteCategories != nil {
		c.Preferences.FavoriteCategories = append([]string{}, i.Preferences.FavoriteCategories...)
	}
	return c
}

// DefaultPreferences are assigned to newly registered shoppers
func DefaultPreferences() Preferences {
	return Preferences{
		Newsletter:         true,
		SMSUpdates:         false,
		PreferredSize:      "M",
		FavoriteCategories: []string{},
	}
}

// RegisterInput is what a shopper supplies to create an account
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// ProfileUpdate is a partial identity update. Nil fields are left unchanged;
// a non-nil Preferences replaces the preferences wholesale.
type ProfileUpdate struct {
	FirstName   *string      `json:"first_name,omitempty"`
	LastName    *string      `json:"last_name,omitempty"`
	Email       *string      `json:"email,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

func (u ProfileUpdate) apply(i Identity) Identity {
	if u.FirstName != nil {
		i.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		i.LastName = *u.LastName
	}
	if u.Email != nil {
		i.Email = *u.Email
	}
	if u.Phone != nil {
		i.Phone = *u.Phone
	}
	if u.Preferences != nil {
		i.Preferences = *u.Preferences
		i.Preferences.FavoriteCategories = append([]string{}, u.Preferences.FavoriteCategories...)
	}
	return i
}

// State is a point-in-time copy of the session
type State struct {
	Identity      *Identity `json:"user"`
	Authenticated bool      `json:"authenticated"`
	Pending       bool      `json:"pending"`
	LastError     string    `json:"error,omitempty"`
}
