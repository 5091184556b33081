package view

// SiteName is the brand appended to every page title.
const SiteName = "Kyle's junk"

// PageTitle formats a page name into the full document title.
func PageTitle(name string) string {
	return name + " - " + SiteName
}
