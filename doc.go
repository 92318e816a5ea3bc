// Package wabridge is a client for the WABridge WhatsApp HTTP API.
//
// The bridge does the WhatsApp work; this package shapes requests for it:
//
//	wa, err := wabridge.New(wabridge.WithHost("localhost"), wabridge.WithPort(3000))
//	if err != nil {
//		return err
//	}
//	defer wa.Close()
//
//	wa.SendSelf(ctx, "Hello!")                          // text to self
//	wa.SendText(ctx, "919876543210", "Hello!")          // text to a number
//	wa.SendBatch(ctx, []wabridge.BatchItem{             // text to many
//		{Phone: "919876543210", Message: "Hi"},
//		{Phone: "919812345678", Message: "Hey"},
//	}, 5)
//
//	wa.SendGroup(ctx, "120363012345@g.us", wabridge.TextContent{Text: "Hello group!"})
//	wa.SendChannel(ctx, "120363098765@newsletter", wabridge.TextContent{Text: "Update!"})
//	wa.SendMedia(ctx, "919876543210", wabridge.ImageContent{
//		URL:     "https://example.com/photo.jpg",
//		Caption: "Check this",
//	})
//
// Send takes a loose argument set through SendRequest and picks the endpoint
// from what is filled in. A target without a message or media is itself sent
// as text to self:
//
//	wa.Send(ctx, wabridge.SendRequest{Target: "Hello!"})  // POST /send/self {"message":"Hello!"}
//
// Non-200 answers come back as *Error; match them with errors.Is against
// ErrConnection, ErrValidation or ErrBridge. IsConnected and SendBatch never
// return errors.
//
// AsyncClient offers the same calls returning a Future, with a batch send that
// runs every item at once.
package wabridge
