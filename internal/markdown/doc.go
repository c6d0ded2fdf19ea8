// Package markdown turns Markdown files with YAML frontmatter into
// interfaces.Document values and renders their bodies to HTML with goldmark.
// Blog posts and legal pages both flow through the same loader.
package markdown
