package otfgrowth

import (
	"bytes"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

const mimeMsgPack = "application/x-msgpack"

//
// writes data as json, or as MessagePack when the
// request asks for it with format=msgpack.
// MessagePack output uses the json field names.
//
func respond(c echo.Context, code int, data interface{}) error {
	if c.QueryParam("format") != "msgpack" {
		return c.JSON(code, data)
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(data); err != nil {
		return errors.Wrap(err, "msgpack encode failed")
	}
	return c.Blob(code, mimeMsgPack, buf.Bytes())
}
