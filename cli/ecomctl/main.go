package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/KarpelesLab/webutil"
	ecomapi "github.com/ShuvroChakma/single-ecom-sub000"
)

// call a single-ecom API endpoint from the command line

var (
	api    = flag.String("api", "", "endpoint path to call")
	method = flag.String("method", "GET", "HTTP method")
	params = flag.String("params", "", "params to pass to the API (json or url encoded)")
	token  = flag.String("token", "", "bearer access token")
)

func main() {
	flag.Parse()
	if *api == "" {
		log.Printf("parameter -api is required")
		flag.Usage()
		os.Exit(1)
	}

	var p ecomapi.Param
	if param := *params; param != "" {
		if param[0] == '{' {
			// json
			json.Unmarshal([]byte(param), &p)
		} else {
			// url encoded
			p = webutil.ParsePhpQuery(param)
		}
	}

	c, err := ecomapi.New()
	if err != nil {
		log.Printf("failed to create client: %s", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if *token != "" {
		ctx = (&ecomapi.TokenPair{AccessToken: *token}).Use(ctx)
	}

	var body any
	if p != nil {
		body = p
	}
	res, err := c.Do(ctx, *api, *method, body)
	if err != nil {
		log.Printf("request failed: %s", ecomapi.ErrorMessage(err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(json.RawMessage(res.Data))
}
