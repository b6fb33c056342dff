// Package account registers the account endpoints on a route builder:
//
//	POST /register     public     create an account
//	POST /login        public     start a session, returns the token and sets the _id cookie
//	POST /logout       protected  end the current session
//	GET  /me           protected  the current account
//	GET  /admin/ping   admin      role check probe
//	POST /files        protected  store uploaded files and enqueue FileUploaded tasks
//
// The module owns no storage: repositories, file storage and the task queue
// come from handler.Resources.
package account
