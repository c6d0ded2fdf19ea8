package blog

import (
	"errors"
	"fmt"
)

var (
	ErrPostNotFound     = errors.New("blog: post not found")
	ErrDuplicateSlug    = errors.New("blog: duplicate slug")
	ErrInvalidPost      = errors.New("blog: invalid post frontmatter")
	ErrSlugUnresolvable = errors.New("blog: slug could not be derived")
)

// NotFoundError reports a slug lookup that matched no post.
type NotFoundError struct {
	Slug string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("blog: post %q not found", e.Slug)
}

func (e *NotFoundError) Unwrap() error {
	return ErrPostNotFound
}

// PostError ties a load failure to the file that caused it.
type PostError struct {
	Path string
	Err  error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("blog: %s: %v", e.Path, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}
