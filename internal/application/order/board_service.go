package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taponce/backend/internal/domain/order"
	"go.uber.org/zap"
)

// BoardMove is one card drag on the Kanban board
type BoardMove struct {
	OrderID            uuid.UUID         `json:"order_id" binding:"required"`
	Status             order.OrderStatus `json:"status" binding:"required"`
	TrackingNumber     string            `json:"tracking_number" binding:"max=100"`
	Reason             string            `json:"reason" binding:"max=1000"`
	ApprovedCommission *decimal.Decimal  `json:"approved_commission"`
}

// BoardMovesRequest is the body of PUT /admin/orders/board/moves
type BoardMovesRequest struct {
	Moves  []BoardMove `json:"moves" binding:"required,min=1,max=100,dive"`
	Filter BoardFilter `json:"filter"`
}

// MoveResult reports one move
type MoveResult struct {
	OrderID  uuid.UUID         `json:"order_id"`
	Status   order.OrderStatus `json:"status"`
	Applied  bool              `json:"applied"`
	Previous order.OrderStatus `json:"previous_status,omitempty"`
	Error    string            `json:"error,omitempty"`
	Code     string            `json:"code,omitempty"`
}

// BoardResponse is the board payload
type BoardResponse struct {
	Columns  []BoardColumn `json:"columns"`
	Total    int           `json:"total"`
	Visible  int           `json:"visible"`
	Filtered bool          `json:"filtered"`
}

// BoardMovesResponse carries per-move results and the resulting board
type BoardMovesResponse struct {
	Results []MoveResult  `json:"results"`
	Board   BoardResponse `json:"board"`
}

// BoardService loads the board and applies card moves through OrderService
type BoardService struct {
	query  order.OrderQuery
	orders *OrderService
	logger *zap.Logger
}

// NewBoardService creates a new BoardService
func NewBoardService(query order.OrderQuery, orders *OrderService, logger *zap.Logger) *BoardService {
	return &BoardService{query: query, orders: orders, logger: logger}
}

// Load returns the full board with filter applied
func (s *BoardService) Load(ctx context.Context, filter BoardFilter) (*BoardResponse, error) {
	board, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	board.Filter(filter)
	resp := toBoardResponse(board)
	return &resp, nil
}

// ApplyMoves runs each move in order. A failed move is reverted on the
// board and reported; the remaining moves still run.
func (s *BoardService) ApplyMoves(ctx context.Context, req BoardMovesRequest) (*BoardMovesResponse, error) {
	board, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]MoveResult, 0, len(req.Moves))
	for _, mv := range req.Moves {
		result := board.Move(ctx, mv.OrderID, mv.Status, func(ctx context.Context, id uuid.UUID, target order.OrderStatus) error {
			_, err := s.orders.UpdateStatus(ctx, id, UpdateStatusRequest{
				Status:             target,
				TrackingNumber:     mv.TrackingNumber,
				Reason:             mv.Reason,
				ApprovedCommission: mv.ApprovedCommission,
			})
			return err
		})
		if result.Applied {
			s.refresh(ctx, board, mv.OrderID)
		}

		r := MoveResult{OrderID: mv.OrderID, Status: mv.Status, Applied: result.Applied, Previous: result.Previous}
		if result.Err != nil {
			r.Error = result.Err.Error()
			r.Code = errorCode(result.Err)
			s.logger.Warn("Board move reverted",
				zap.String("order_id", mv.OrderID.String()),
				zap.String("target", mv.Status.String()),
				zap.Error(result.Err),
			)
		}
		results = append(results, r)
	}

	board.Filter(req.Filter)
	return &BoardMovesResponse{Results: results, Board: toBoardResponse(board)}, nil
}

// refresh reloads a moved row so side effects of the move, such as the
// payment status set on paid, show on the board.
func (s *BoardService) refresh(ctx context.Context, board *Board, id uuid.UUID) {
	row, err := s.query.GetSummary(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to refresh moved order", zap.String("order_id", id.String()), zap.Error(err))
		return
	}
	board.Replace(*row)
}

func (s *BoardService) load(ctx context.Context) (*Board, error) {
	rows, err := s.query.ListSummaries(ctx, order.SummaryFilter{})
	if err != nil {
		return nil, err
	}
	return NewBoard(rows), nil
}

func toBoardResponse(b *Board) BoardResponse {
	columns := b.Columns()
	visible := 0
	for _, c := range columns {
		visible += c.Count
	}
	return BoardResponse{
		Columns:  columns,
		Total:    len(b.All()),
		Visible:  visible,
		Filtered: !b.ActiveFilter().IsEmpty(),
	}
}
