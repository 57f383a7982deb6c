package message_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/arb33/multipart-form-decoder/message"
	"github.com/arb33/multipart-form-decoder/message/header"
)

func ExampleDecoder() {
	in := strings.NewReader("--b\r\n" +
		"Content-Disposition: form-data; name=\"greeting\"\r\n\r\n" +
		"hello\r\n" +
		"--b--\r\n")

	d, err := message.NewDecoder(in)
	if err != nil {
		panic(err)
	}

	more, err := d.SkipPreamble()
	for more && err == nil {
		var h header.Header
		if h, err = d.ReadHeaders(); err != nil {
			break
		}

		buf := &bytes.Buffer{}
		if _, err = d.ReadBodyData(buf); err != nil {
			break
		}
		fmt.Printf("%s = %s\n", h.FieldName(), buf)

		more, err = d.ReadBoundary()
	}
	if err != nil {
		panic(err)
	}

	// Output: greeting = hello
}
