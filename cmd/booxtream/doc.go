// Command booxtream personalizes e-books through the BooXtream service.
//
// Usage:
//
//	booxtream send --type epub --epub book.epub --option referenceid=1001 \
//		--option customername="Jane Reader" --output personalized.epub
//	booxtream send --type xml --stored-epub catalogue-42 --option downloadlimit=3 ...
//	booxtream options
//
// Credentials and defaults are read from ~/.config/booxtream/config.toml,
// see the internal/config package.
package main
