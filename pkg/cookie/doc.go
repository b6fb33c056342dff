// Package cookie renders Set-Cookie values and parses request Cookie headers
// without going through net/http.
//
//	c, err := cookie.New("_id", token, cookie.WithHTTPOnly(true), cookie.WithSameSite(cookie.SameSiteNone), cookie.WithPath("/"))
//	resp.Header.Set("Set-Cookie", c.String())
//
//	cookies := cookie.Parse(req.Header.Get("cookie"))
//	if c, ok := cookie.FindPrefix(cookies, "_id"); ok {
//		// use c.Value
//	}
//
// Config carries the attribute defaults and loads from COOKIE_* variables.
package cookie
