package publisher

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugStrip    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
)

// Backslash is listed first so the escapes inserted for the other
// characters are not escaped again. Replacer applies all pairs in one pass.
var graphqlEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
)

// EscapeString makes text safe inside a GraphQL string literal.
func EscapeString(s string) string {
	return graphqlEscaper.Replace(s)
}

// TagSlug derives Hashnode's URL slug for a tag name.
//
//	"C++ Tips!"            -> "c-tips"
//	"  multiple   spaces " -> "multiple-spaces"
func TagSlug(tag string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(tag), "")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// BuildMutation renders the publishPost mutation for req. Tags that are empty
// after trimming are dropped; with none left the tags field is omitted rather
// than sent as an empty list. The cover image block is likewise omitted when
// no URL is given.
func BuildMutation(req PublishRequest, publicationID string) string {
	var sb strings.Builder
	sb.WriteString("mutation PublishPost {\n")
	sb.WriteString("  publishPost(input: {\n")
	fmt.Fprintf(&sb, "    title: \"%s\"\n", EscapeString(req.Title))
	fmt.Fprintf(&sb, "    contentMarkdown: \"%s\"\n", EscapeString(req.ContentMarkdown))
	fmt.Fprintf(&sb, "    publicationId: \"%s\"\n", EscapeString(publicationID))
	if tags := tagObjects(req.Tags); tags != "" {
		fmt.Fprintf(&sb, "    tags: [%s]\n", tags)
	}
	if req.CoverImageURL != "" {
		fmt.Fprintf(&sb, "    coverImageOptions: {coverImageURL: \"%s\"}\n", EscapeString(req.CoverImageURL))
	}
	sb.WriteString("    settings: {\n")
	sb.WriteString("      delisted: false\n")
	sb.WriteString("      enableTableOfContent: true\n")
	sb.WriteString("      isNewsletterActivated: false\n")
	sb.WriteString("    }\n")
	sb.WriteString("  }) {\n")
	sb.WriteString("    post {\n")
	sb.WriteString("      id\n      title\n      url\n      slug\n      publishedAt\n")
	sb.WriteString("    }\n")
	sb.WriteString("  }\n")
	sb.WriteString("}")
	return sb.String()
}

func tagObjects(tags []string) string {
	var objs []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		objs = append(objs, fmt.Sprintf(`{name: "%s", slug: "%s"}`, EscapeString(tag), TagSlug(tag)))
	}
	return strings.Join(objs, ", ")
}

// BuildPublicationQuery renders the read-only publication lookup.
func BuildPublicationQuery(publicationID string) string {
	return fmt.Sprintf(`query GetPublication {
  publication(id: "%s") {
    id
    title
    displayTitle
    url
    metaDescription
    favicon
    isTeam
    followersCount
    author {
      name
      username
    }
  }
}`, EscapeString(publicationID))
}
