package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	v1 "github.com/ardanlabs/jackcoin/business/web/v1"
)

var client = http.Client{
	Timeout: time.Minute,
}

func get(url string, resp any) error {
	r, err := client.Get(url)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	return decode(r, resp)
}

func post(url string, body any, resp any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	r, err := client.Post(url, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer r.Body.Close()

	return decode(r, resp)
}

func decode(r *http.Response, resp any) error {
	if r.StatusCode != http.StatusOK {
		var er v1.ErrorResponse
		if err := json.NewDecoder(r.Body).Decode(&er); err != nil {
			return fmt.Errorf("node returned status %d", r.StatusCode)
		}
		if len(er.Fields) > 0 {
			return fmt.Errorf("node returned status %d: %s: %v", r.StatusCode, er.Error, er.Fields)
		}
		return fmt.Errorf("node returned status %d: %s", r.StatusCode, er.Error)
	}

	return json.NewDecoder(r.Body).Decode(resp)
}
