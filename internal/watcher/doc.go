// Package watcher keeps each game variant's base_colors.json and fonts.json
// in line with the settings saved in the launcher database.
//
// The game and third-party tools sometimes overwrite or delete these
// files. The Watcher listens for changes in every variant's config
// directory via fsnotify, and on the next tick writes the saved font and
// theme back (or removes the files when nothing is selected).
//
// Example usage:
//
//	w, err := watcher.New(layout, syncer, watcher.DefaultInterval)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Foreground, until SIGINT/SIGTERM
//	if err := watcher.Run(ctx, w, ""); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or detached
//	if err := watcher.StartDaemon(pidFile, logFile); err != nil {
//		log.Fatal(err)
//	}
package watcher
