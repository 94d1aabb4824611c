package services

// Broadcaster delivers reveal and settlement outcomes to connected clients.
type Broadcaster interface {
	BroadcastReveal(player string, tile int, isMine bool, revealedSafe int)
	BroadcastCashout(player string, payout, poolBalance int64)
	BroadcastPoolUpdate(balance int64)
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastReveal(string, int, bool, int) {}
func (noopBroadcaster) BroadcastCashout(string, int64, int64)  {}
func (noopBroadcaster) BroadcastPoolUpdate(int64)              {}
