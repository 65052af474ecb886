package publisher

import "time"

// Error codes reported by Publish.
const (
	CodeGraphQLError  = "GRAPHQL_ERROR"
	CodeEmptyResponse = "EMPTY_RESPONSE"
	CodeHTTPError     = "HTTP_ERROR"
	CodeUnknownError  = "UNKNOWN_ERROR"
)

// DefaultAPIURL is Hashnode's public GraphQL endpoint.
const DefaultAPIURL = "https://gql.hashnode.com/"

// DefaultTimeout bounds every call to the GraphQL endpoint.
const DefaultTimeout = 30 * time.Second

// Settings holds the Hashnode credentials.
type Settings struct {
	APIURL        string
	Token         string
	PublicationID string
}

// PublishRequest describes the post to create.
type PublishRequest struct {
	Title           string   `json:"title"`
	ContentMarkdown string   `json:"content_markdown"`
	Tags            []string `json:"tags,omitempty"`
	CoverImageURL   string   `json:"cover_image_url,omitempty"`
	// IsFeatured is accepted for API compatibility; Hashnode's publishPost
	// input has no such field so it is not sent.
	IsFeatured bool `json:"is_featured"`
}

// Result is the outcome of one publish call. ErrorCode is set only on failure.
type Result struct {
	Success   bool   `json:"success"`
	PostID    string `json:"post_id,omitempty"`
	PostURL   string `json:"post_url,omitempty"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
}

// PublicationInfo is the read-only view of the configured publication.
type PublicationInfo struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DisplayTitle    string `json:"displayTitle"`
	URL             string `json:"url"`
	MetaDescription string `json:"metaDescription"`
	Favicon         string `json:"favicon"`
	IsTeam          bool   `json:"isTeam"`
	FollowersCount  int    `json:"followersCount"`
	Author          struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"author"`
}
