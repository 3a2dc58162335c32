package domain

// SourceType identifies a third-party content source.
type SourceType string

const (
	SourceGoogleDrive SourceType = "google-drive"
	SourceNotion      SourceType = "notion"
	SourceSlack       SourceType = "slack"
	SourceDiscord     SourceType = "discord"
	SourceGitHub      SourceType = "github"
)

// sourceAliases maps the short route names to source types.
var sourceAliases = map[string]SourceType{
	"drive":  SourceGoogleDrive,
	"gdrive": SourceGoogleDrive,
}

// ParseSourceType resolves a route segment to a source type.
func ParseSourceType(s string) SourceType {
	if t, ok := sourceAliases[s]; ok {
		return t
	}
	return SourceType(s)
}

// IDField returns the metadata key whose value becomes the document id.
func (t SourceType) IDField() string {
	switch t {
	case SourceGoogleDrive:
		return "file_name"
	case SourceNotion:
		return "page_id"
	case SourceSlack:
		return "channel"
	case SourceDiscord:
		return "channel_id"
	case SourceGitHub:
		return "file_path"
	}
	return "id"
}

// AssignIDs sets every document id from its id field when present.
func (t SourceType) AssignIDs(docs []Document) {
	field := t.IDField()
	for i := range docs {
		if id := docs[i].MetadataString(field); id != "" {
			docs[i].ID = id
		}
	}
}

// SourceRequest asks a connector to fetch documents.
type SourceRequest struct {
	// Credential names a secret; the secret itself never travels in requests.
	Credential CredentialRef     `json:"credential"`
	Params     map[string]string `json:"params,omitempty"`
	// Index also splits, embeds and stores the documents.
	Index bool `json:"index,omitempty"`
}

// SourceIngestResult summarises a connector ingest.
type SourceIngestResult struct {
	Source     SourceType `json:"source"`
	Credential string     `json:"credential"`
	Documents  int        `json:"documents"`
	IDs        []string   `json:"ids"`
	Indexed    int        `json:"indexed"`
}
