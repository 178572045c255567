// Package shotship provides a non-blocking sender for geotagged detection
// shots: a structured record plus its JPEG image.
//
// Producers call [Sender.Post], which never performs network I/O. Shots wait
// in a bounded queue and a single background worker uploads them one at a
// time as multipart/form-data requests. When the queue is full the oldest
// shot is dropped so the freshest data survives a slow or unreachable
// endpoint. Failed deliveries are logged and dropped, never retried.
//
// # Basic Usage
//
//	s, err := shotship.New(shotship.Config{
//	    Capacity:   100,
//	    ServiceURL: "http://ingest.local:8080",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Stop()
//
//	_ = s.Post(shotship.Record{
//	    ShotLat: 55.751244,
//	    ShotLon: 37.618423,
//	    Objects: []shotship.Detection{{XCenter: 0.5, YCenter: 0.4, Width: 0.05, Height: 0.1, Label: "person"}},
//	}, jpegBytes)
//
// # Process-wide instance
//
// A [Registry] hands out one Sender per process: the first successful call
// to [Registry.Get] decides the configuration and later calls return the
// same instance. Tests should construct their own Registry or call [New].
//
// # Lifecycle States
//
// A Sender is Running from construction. [Sender.Stop] moves it to Stopping,
// lets the worker drain what is queued, and ends in Stopped. Shots posted
// after Stop began are rejected with [ErrRejected].
//
// # Event Handling
//
// Implement [EventHandler] (embedding [BaseEventHandler]) and pass it with
// [WithEventHandler] to observe accepted, evicted, rejected, delivered and
// failed shots. Handlers run synchronously and must return quickly.
package shotship
