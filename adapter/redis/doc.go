// Package redis connects streaming graphs to Redis lists.
//
// ListSource pops values from the head of a list and ListSink appends node
// output to the tail, so a list can carry values between graphs running in
// different processes. Values travel as JSON; integral numbers decode back
// to int.
//
//	client := redis.NewClient(redis.RedisOptions{Addr: "localhost:6379"})
//	ticks := streaming.Input("ticks", redis.NewListSource(client, "ticks",
//		redis.ListSourceOptions{StopWhenEmpty: true}))
//	out := ticks.RollingSum(3).Output(redis.NewListSink(client, "sums",
//		redis.ListSinkOptions{MaxLen: 1000}))
package redis
