package jellyfin

import "strings"

// ItemsResponse is the paged envelope returned by the Items endpoints.
type ItemsResponse struct {
	Items            []Item `json:"Items"`
	TotalRecordCount int    `json:"TotalRecordCount"`
	StartIndex       int    `json:"StartIndex"`
}

type Item struct {
	ID          string            `json:"Id"`
	Name        string            `json:"Name"`
	Type        string            `json:"Type"`
	ProviderIDs map[string]string `json:"ProviderIds"`
}

// providerID looks up a provider id ignoring key casing; servers have
// reported both "Tvdb" and "tvdb".
func (i Item) providerID(provider string) string {
	if v, ok := i.ProviderIDs[provider]; ok {
		return v
	}
	for k, v := range i.ProviderIDs {
		if strings.EqualFold(k, provider) {
			return v
		}
	}
	return ""
}
