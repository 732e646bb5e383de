package models

// Event is a single entry in the events collection.
type Event struct {
	// ID is assigned by the datastore and never stored inside the document.
	ID          string `json:"_id,omitempty" firestore:"-"`
	Title       string `json:"title" firestore:"title"`
	Description string `json:"description" firestore:"description"`
	Location    string `json:"location" firestore:"location"`
	Date        string `json:"date,omitempty" firestore:"date,omitempty"`
	Likes       int64  `json:"likes" firestore:"likes"`
}

// NewEvent is the client-supplied part of an event. Fields are not validated;
// absent ones are stored as empty strings.
type NewEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// ToEvent returns the document to persist for n, with likes starting at zero.
func (n NewEvent) ToEvent() Event {
	return Event{
		Title:       n.Title,
		Description: n.Description,
		Location:    n.Location,
		Likes:       0,
	}
}

// EventList is the response body shared by every listing endpoint.
type EventList struct {
	Events []Event `json:"events"`
}

// LikeRequest is the body of PUT and DELETE /event/like.
type LikeRequest struct {
	ID string `json:"id"`
}
