package dto

type CreateRequestDTO struct {
	Name          string `json:"name" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	Specification string `json:"specification"`
	GroupID       string `json:"groupId"`
}

type UpdateRequestDTO struct {
	Name          *string `json:"name"`
	Quantity      *int    `json:"quantity" binding:"omitempty,min=1"`
	Specification *string `json:"specification"`
}

// ReorderDTO carries one drag gesture: the item the client picked up and
// the item (or group) it was dropped onto. An empty targetId means the
// drag ended outside any item; a grouped request dropped that way falls
// back to the end of the flat list.
type ReorderDTO struct {
	MovedID  string `json:"movedId" binding:"required"`
	TargetID string `json:"targetId"`
}

type MoveItemsDTO struct {
	// Mixed selection of request and group ids; groups expand to their members.
	Selected           []string `json:"selected" binding:"required,min=1"`
	DestinationGroupID *string  `json:"destinationGroupId"`
}

type ToggleSelectionDTO struct {
	Selected []string `json:"selected"`
	ID       string   `json:"id" binding:"required"`
	Kind     string   `json:"kind" binding:"required,oneof=request group"`
}
