package inkwell

import "errors"

var (
	ErrKeyNotFound        = errors.New("key not found")
	ErrMissingTitle       = errors.New("missing post title")
	ErrMissingBody        = errors.New("missing post body")
	ErrSeedStatus         = errors.New("unexpected seed response status")
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
)
