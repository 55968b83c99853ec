package store

import "time"

// timeLayout is the timestamp format used in pattern frontmatter.
const timeLayout = time.RFC3339

// timeNow is a package-level var to allow test injection.
var timeNow = time.Now
