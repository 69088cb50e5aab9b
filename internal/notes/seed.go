package notes

import "time"

// SeedNotes returns the sample notes used to preload the in-memory backend
// and by the seeding utility. IDs and dates are fixed so reseeding is
// reproducible.
func SeedNotes() []Note {
	return []Note{
		{
			ID:        "1",
			Content:   "HTML is the foundation of web development",
			Important: true,
			Category:  "Web Development",
			Date:      time.Date(2023, 5, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:        "2",
			Content:   "JavaScript is the language of the web",
			Important: true,
			Category:  "Programming",
			Date:      time.Date(2023, 5, 16, 14, 45, 0, 0, time.UTC),
		},
		{
			ID:        "3",
			Content:   "RESTful APIs follow specific architectural constraints",
			Important: true,
			Category:  "API Design",
			Date:      time.Date(2023, 5, 17, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:        "4",
			Content:   "CSS frameworks can speed up development",
			Important: false,
			Category:  "Frontend",
			Date:      time.Date(2023, 5, 18, 16, 20, 0, 0, time.UTC),
		},
		{
			ID:        "5",
			Content:   "Always validate user input on the server side",
			Important: true,
			Category:  "Security",
			Date:      time.Date(2023, 5, 19, 11, 10, 0, 0, time.UTC),
		},
	}
}
