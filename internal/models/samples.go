package models

// SampleEvents returns the fallback listing served when the collection is
// empty or unreachable. Each call returns a fresh slice.
func SampleEvents() []Event {
	return []Event{
		{Title: "CND Workshop Day 1", Description: "Cloud Native Development Bootcamp Day 1", Date: "April 6th 2020", Location: "Orlando", Likes: 0},
		{Title: "CND Workshop Day 2", Description: "Cloud Native Development Bootcamp Day 2", Date: "April 7th 2020", Location: "Lake Mary", Likes: 0},
		{Title: "CND Workshop Day 3", Description: "Cloud Native Development Bootcamp Day 3", Date: "April 13th 2020", Location: "Zoom Room", Likes: 0},
		{Title: "CND Workshop Day 4", Description: "Cloud Native Development Bootcamp Day 4", Date: "April 14th 2020", Location: "Virtual", Likes: 0},
	}
}
