package tvdb

// updatesFeed is the document served by Updates.php. The cursor-only variant
// carries just Time.
type updatesFeed struct {
	Time   string   `xml:"Time"`
	Series []string `xml:"Series"`
}

// seriesDocument is the per-language document inside a series archive.
type seriesDocument struct {
	Episodes []episodeRecord `xml:"Episode"`
}

type episodeRecord struct {
	ID           string  `xml:"id"`
	SeasonNumber *string `xml:"SeasonNumber"`
	FirstAired   string  `xml:"FirstAired"`
}
