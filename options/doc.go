// Package options models the delivery options sent along with an e-book to
// the BooXtream service.
//
// # Keys
//
// Every option is identified by a [Key] with a static [Kind] and an
// applicability rule. Download-link keys ([DownloadLimit], [ExpiryDays],
// [EPUB], [KF8Mobi]) only apply when the requested result is a metadata
// (xml) document; they are rejected for epub and mobi output.
//
// # Validating
//
// A [Set] is a loose bag of values until [Set.Validate] checks it against
// the known keys. Validation reports every problem at once:
//
//	set := options.New(map[string]any{
//		"referenceid":          "order-1",
//		"customeremailaddress": "reader@example.com",
//		"languagecode":         1033,
//	})
//	if err := set.Validate(false); err != nil {
//		var ve options.ValidationError
//		if errors.As(err, &ve) {
//			fmt.Println(ve.Keys())
//		}
//	}
//
// # Rendering
//
// Once validated, [Set.Pairs] renders the options in a fixed order as the
// name/value strings the service expects.
package options
