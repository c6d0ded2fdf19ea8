// Package http serves the Pacer site and its JSON API.
//
// Public pages:
//   - Landing: /
//   - Blog: /blog, /blog/{slug}, /blog/tag/{tag}, /blog/search
//   - Legal: /legal/{slug}
//   - Feeds: /feed.xml, /feed.atom.xml, /sitemap.xml, /robots.txt
//
// API under /api:
//   - Posts: /posts, /posts/{slug}, /posts/{slug}/related, /tags
//   - Audience: /waitlist, /subscribe, /unsubscribe
//   - Admin (bearer token): /admin/waitlist, /admin/subscribers, /admin/users
//
// Host applications can register handlers on their own mux/router as needed.
package http
