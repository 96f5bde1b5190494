package model

// Tab is an entry in the client's bottom navigation bar
type Tab struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	IsActive        bool   `json:"isActive"`
	HasNotification bool   `json:"hasNotification,omitempty"`
}

// DefaultTabs is the fixed navigation shown by the app. The challenge tab
// hosts the mission screens.
func DefaultTabs() []Tab {
	return []Tab{
		{ID: "tab-1", Name: "Home"},
		{ID: "tab-2", Name: "Challenge", IsActive: true, HasNotification: true},
		{ID: "tab-3", Name: "Assets"},
		{ID: "tab-4", Name: "Products"},
		{ID: "tab-5", Name: "Settings"},
	}
}
