package taxonomy

// defaultCategories is the compiled-in taxonomy. Order is significant: it
// decides tie-breaks between equally scored categories.
var defaultCategories = []Category{
	{
		Name:     "email_management",
		Keywords: []string{"email", "inbox", "message", "mail"},
		Actions:  []string{"categorize", "archive", "respond", "forward"},
	},
	{
		Name:     "document_handling",
		Keywords: []string{"document", "file", "report", "paper"},
		Actions:  []string{"review", "edit", "share", "archive"},
	},
	{
		Name:     "meeting_scheduling",
		Keywords: []string{"meeting", "appointment", "schedule", "calendar"},
		Actions:  []string{"schedule", "prepare", "follow_up", "reschedule"},
	},
	{
		Name:     "data_analysis",
		Keywords: []string{"data", "analysis", "report", "statistics"},
		Actions:  []string{"analyze", "visualize", "report", "summarize"},
	},
	{
		Name:     "project_management",
		Keywords: []string{"project", "task", "milestone", "deadline"},
		Actions:  []string{"plan", "track", "update", "review"},
	},
}

// Default returns the compiled-in taxonomy.
func Default() Taxonomy {
	return MustNew(defaultCategories)
}
