package types

import "fmt"

// ChannelStatus represents the migration state of a channel
type ChannelStatus string

const (
	ChannelStatusPending    ChannelStatus = "pending"
	ChannelStatusInProgress ChannelStatus = "in_progress"
	ChannelStatusCompleted  ChannelStatus = "completed"
	ChannelStatusFailed     ChannelStatus = "failed"
)

// IsValid checks if the channel status is valid
func (s ChannelStatus) IsValid() bool {
	switch s {
	case ChannelStatusPending,
		ChannelStatusInProgress,
		ChannelStatusCompleted,
		ChannelStatusFailed:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as ChannelStatusPending
func (s ChannelStatus) Normalize() ChannelStatus {
	if s == "" {
		return ChannelStatusPending
	}
	return s
}

// String returns the string representation of the channel status
func (s ChannelStatus) String() string {
	return string(s)
}

// ParseChannelStatus parses a string into a ChannelStatus
func ParseChannelStatus(s string) (ChannelStatus, error) {
	status := ChannelStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid channel status: %s", s)
	}
	return status, nil
}
