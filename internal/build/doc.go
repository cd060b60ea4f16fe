// Package build runs the site pipeline: aggregate content sources, classify
// them into a catalog, convert pages, verify links, publish the output tree
// and record a manifest. The CLI and watch mode both route through Service.
package build
