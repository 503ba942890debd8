// Package markdown wraps goldmark and adrg/frontmatter for the pieces of
// Markdown analysis booksync needs: splitting front matter, locating the
// chapter heading, collecting heading anchors and links, and rendering
// previews.
package markdown
