package models

// GroupSettings holds the per-chat settings edited by administrators.
type GroupSettings struct {
	Rules   string `json:"rules"`   // Text shown by the rules command.
	Welcome string `json:"welcome"` // Text sent when a member joins.
	Locked  bool   `json:"locked"`  // Set by the lock command, cleared by unlock.
}
