package model

// Version is the current release of the misc-tools suite.
// Keep in sync with the git tag when cutting a release.
const Version = "1.2.0"
