// Package client sends an e-book and its delivery options to the BooXtream
// service and returns the service's answer.
//
// # Building a Client
//
// A [Client] serves exactly one exchange. It is created for an [OutputType]
// with a set of delivery options, which are validated for that output:
//
//	set := options.New(map[string]any{
//		"referenceid":          "1234567890",
//		"customeremailaddress": "customer@example.com",
//		"languagecode":         1033,
//		"downloadlimit":        3,
//		"expirydays":           30,
//	})
//	c, err := client.New(client.XML, set, client.Credentials{Username: "user", APIKey: "key"})
//
// # Attaching Files
//
// The e-book is either uploaded from disk with [Client.SetEpubFile] or taken
// from the service's file store with [Client.SetStoredEpubFile]. An optional
// ex libris image is attached the same way. Each slot accepts one source;
// filling it twice fails with [ErrState].
//
// # Sending
//
// [Client.Send] performs the exchange. When the service rejects the request
// the [Response] is still returned, with a nil error, so its error document
// can be inspected:
//
//	resp, err := c.Send(ctx)
//	if err != nil {
//		return err // the exchange itself failed
//	}
//	if resp.Rejected() {
//		log.Printf("rejected: %s", resp.Body)
//	}
//
// # Transport
//
// Requests go through a [Transport]. The default [HTTPTransport] can be
// tuned with [NewHTTPTransport] options such as [WithTimeout] and
// [WithThrottle], and handed to [New] with [WithTransport].
package client
