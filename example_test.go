package booxtream_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/adamwoolhether/booxtream"
	"github.com/adamwoolhether/booxtream/client"
)

func ExampleNewClient() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Content-Type", "application/epub+zip")
		fmt.Fprint(w, "personalized")
	}))
	defer ts.Close()

	c, err := booxtream.NewClient("epub",
		map[string]any{
			"referenceid":  "order-1001",
			"customername": "Jane Reader",
			"languagecode": 1043,
			"exlibris":     true,
			"exlibrisfont": "serif",
		},
		client.Credentials{Username: "shop", APIKey: "key"},
		client.WithBaseURL(ts.URL),
	)
	if err != nil {
		fmt.Println("build error:", err)
		return
	}
	defer c.Close()

	if err := c.SetStoredEpubFile(context.Background(), "catalogue-42.epub"); err != nil {
		fmt.Println("attach error:", err)
		return
	}

	resp, err := c.Send(context.Background())
	if err != nil {
		fmt.Println("send error:", err)
		return
	}

	fmt.Println(resp.StatusCode, resp.ContentType(), string(resp.Body))
	// Output: 200 application/epub+zip personalized
}
