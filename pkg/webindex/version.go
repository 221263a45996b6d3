package webindex

// Version is the webindex release version.
const Version = "v0.1.0"
