package controllers

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scopteam/scopbackend/database"
	"github.com/scopteam/scopbackend/dto"
	"github.com/scopteam/scopbackend/models"
	"github.com/scopteam/scopbackend/ordering"
	"github.com/scopteam/scopbackend/selection"
	"github.com/scopteam/scopbackend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"
)

// loadOrderingItems builds the reconciler's view of a client's dashboard:
// every group and request, with grouped requests carrying their group id.
func loadOrderingItems(c *gin.Context, userID bson.ObjectID) ([]ordering.Item, error) {
	ctx := c.Request.Context()

	items := make([]ordering.Item, 0)

	groupsCol := database.OpenCollection("groups")
	gCursor, err := groupsCol.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	var groups []models.Group
	if err := gCursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	for _, g := range groups {
		items = append(items, ordering.Item{ID: g.Id.Hex(), Kind: ordering.KindGroup, Position: g.Position})
	}

	requestsCol := database.OpenCollection("requests")
	rCursor, err := requestsCol.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	var requests []models.Request
	if err := rCursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	for _, r := range requests {
		groupID := ""
		if r.GroupID != nil {
			groupID = r.GroupID.Hex()
		}
		items = append(items, ordering.Item{ID: r.Id.Hex(), Kind: ordering.KindRequest, Position: r.Position, GroupID: groupID})
	}

	return items, nil
}

// POST /client/requests  (multipart: "data" json + required "image" file)
func CreateRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		jsonData := c.PostForm("data")
		if jsonData == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing data"})
			return
		}

		var body dto.CreateRequestDTO
		if err := json.Unmarshal([]byte(jsonData), &body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data json"})
			return
		}
		if body.Name == "" || body.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and a positive quantity are required"})
			return
		}

		ctx := c.Request.Context()
		requestsCol := database.OpenCollection("requests")
		groupsCol := database.OpenCollection("groups")

		now := time.Now().UTC()
		request := models.Request{
			Id:            bson.NewObjectID(),
			UserID:        userID,
			Name:          body.Name,
			Quantity:      body.Quantity,
			Specification: body.Specification,
			LastModified:  now,
			CreatedAt:     now,
		}

		if body.GroupID != "" {
			groupID, err := bson.ObjectIDFromHex(body.GroupID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
				return
			}
			count, err := groupsCol.CountDocuments(ctx, bson.M{"_id": groupID, "userId": userID})
			if err != nil || count == 0 {
				c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
				return
			}
			request.GroupID = &groupID
			// grouped requests have no top-level position
		} else {
			items, err := loadOrderingItems(c, userID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			pos := ordering.TopPosition(items)
			request.Position = &pos
		}

		fileHeader, err := c.FormFile("image")
		if err != nil || fileHeader == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "an image is required"})
			return
		}
		validator := utils.NewImageValidator()
		if _, err := validator.ValidateFile(fileHeader); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		store, err := utils.NewObjectStore(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
			return
		}
		url, err := store.UploadImage(ctx, "requests", userID.Hex(), fileHeader)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed"})
			return
		}
		request.ImageURL = url

		if _, err := requestsCol.InsertOne(ctx, request); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if request.GroupID != nil {
			_, _ = groupsCol.UpdateByID(ctx, *request.GroupID, bson.M{"$set": bson.M{"lastModified": now}})
		}

		c.JSON(http.StatusCreated, request)
	}
}

type dashboardGroup struct {
	models.Group
	Requests []models.Request `json:"requests"`
}

type dashboardEntry struct {
	Kind    string          `json:"kind"`
	Request *models.Request `json:"request,omitempty"`
	Group   *dashboardGroup `json:"group,omitempty"`
}

// GET /client/dashboard
//
// Returns groups and ungrouped requests as one list ordered by position
// (unpositioned entries last), with each group's members ordered by last
// modification, newest first.
func GetDashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		groupsCol := database.OpenCollection("groups")
		gCursor, err := groupsCol.Find(ctx, bson.M{"userId": userID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var groups []models.Group
		if err := gCursor.All(ctx, &groups); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		requestsCol := database.OpenCollection("requests")
		rCursor, err := requestsCol.Find(ctx, bson.M{"userId": userID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var requests []models.Request
		if err := rCursor.All(ctx, &requests); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		byGroup := make(map[string][]models.Request)
		entries := make([]dashboardEntry, 0, len(groups)+len(requests))

		for i := range requests {
			r := requests[i]
			if r.GroupID != nil {
				key := r.GroupID.Hex()
				byGroup[key] = append(byGroup[key], r)
				continue
			}
			entries = append(entries, dashboardEntry{Kind: "request", Request: &requests[i]})
		}

		for i := range groups {
			g := groups[i]
			members := byGroup[g.Id.Hex()]
			sort.SliceStable(members, func(a, b int) bool {
				return members[a].LastModified.After(members[b].LastModified)
			})
			entries = append(entries, dashboardEntry{Kind: "group", Group: &dashboardGroup{Group: g, Requests: members}})
		}

		sort.SliceStable(entries, func(i, j int) bool {
			a := entryPosition(entries[i])
			b := entryPosition(entries[j])
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return *a < *b
		})

		c.JSON(http.StatusOK, gin.H{"items": entries})
	}
}

func entryPosition(e dashboardEntry) *int {
	if e.Request != nil {
		return e.Request.Position
	}
	return e.Group.Position
}

// PATCH /client/requests/:id
func UpdateRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		requestID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
			return
		}

		var body dto.UpdateRequestDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"lastModified": time.Now().UTC()}
		if body.Name != nil {
			if *body.Name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
				return
			}
			set["name"] = *body.Name
		}
		if body.Quantity != nil {
			set["quantity"] = *body.Quantity
		}
		if body.Specification != nil {
			set["specification"] = *body.Specification
		}

		requestsCol := database.OpenCollection("requests")
		res, err := requestsCol.UpdateOne(c.Request.Context(),
			bson.M{"_id": requestID, "userId": userID},
			bson.M{"$set": set})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
			return
		}

		var updated models.Request
		if err := requestsCol.FindOne(c.Request.Context(), bson.M{"_id": requestID}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// DELETE /client/requests/:id
//
// Removes the request, its offers, and any stored images.
func DeleteRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		requestID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
			return
		}
		ctx := c.Request.Context()

		requestsCol := database.OpenCollection("requests")
		offersCol := database.OpenCollection("offers")

		var request models.Request
		if err := requestsCol.FindOne(ctx, bson.M{"_id": requestID, "userId": userID}).Decode(&request); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
			return
		}

		oCursor, err := offersCol.Find(ctx, bson.M{"requestId": requestID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var offers []models.Offer
		if err := oCursor.All(ctx, &offers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if _, err := offersCol.DeleteMany(ctx, bson.M{"requestId": requestID}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if _, err := requestsCol.DeleteOne(ctx, bson.M{"_id": requestID}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// best effort object cleanup
		urls := make([]string, 0, len(offers)+1)
		if request.ImageURL != "" {
			urls = append(urls, request.ImageURL)
		}
		for _, o := range offers {
			if o.PhotoURL != "" {
				urls = append(urls, o.PhotoURL)
			}
		}
		if len(urls) > 0 {
			if store, err := utils.NewObjectStore(ctx); err == nil {
				names := make([]string, 0, len(urls))
				for _, u := range urls {
					if name, err := store.ObjectNameFromURL(u); err == nil {
						names = append(names, name)
					}
				}
				_ = store.DeleteObjects(ctx, names)
			}
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// POST /client/requests/reorder
//
// Persists a completed drag: onto a group, out of a group, or a reorder of
// the flat list. The reorder case rewrites every top-level position.
func ReorderItems() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var body dto.ReorderDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		items, err := loadOrderingItems(c, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		plan, err := ordering.Reconcile(items, body.MovedID, body.TargetID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		requestsCol := database.OpenCollection("requests")
		groupsCol := database.OpenCollection("groups")
		now := time.Now().UTC()

		kinds := make(map[string]ordering.Kind, len(items))
		for _, it := range items {
			kinds[it.ID] = it.Kind
		}

		switch plan.Action {
		case ordering.ActionMoveIntoGroup:
			movedID, err := bson.ObjectIDFromHex(plan.Moved)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid moved id"})
				return
			}
			groupID, err := bson.ObjectIDFromHex(plan.TargetGroup)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target id"})
				return
			}
			_, err = requestsCol.UpdateOne(ctx,
				bson.M{"_id": movedID, "userId": userID},
				bson.M{"$set": bson.M{"groupId": groupID, "position": nil, "lastModified": now}})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			_, err = groupsCol.UpdateOne(ctx,
				bson.M{"_id": groupID, "userId": userID},
				bson.M{"$set": bson.M{"position": plan.GroupPosition, "lastModified": now}})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}

		case ordering.ActionMoveOutOfGroup, ordering.ActionReorder:
			// dense rewrite of the whole top-level list
			writes := plan.Writes
			if plan.Action == ordering.ActionMoveOutOfGroup {
				writes = make([]ordering.PositionWrite, len(plan.Order))
				for i, id := range plan.Order {
					kind := kinds[id]
					writes[i] = ordering.PositionWrite{ID: id, Kind: kind, Position: i}
				}
			}

			g, gctx := errgroup.WithContext(ctx)
			for _, w := range writes {
				w := w
				g.Go(func() error {
					id, err := bson.ObjectIDFromHex(w.ID)
					if err != nil {
						return err
					}
					set := bson.M{"position": w.Position}
					col := groupsCol
					if w.Kind == ordering.KindRequest {
						col = requestsCol
						if w.ID == plan.Moved && plan.Action == ordering.ActionMoveOutOfGroup {
							set["groupId"] = nil
							set["lastModified"] = now
						}
					}
					_, err = col.UpdateOne(gctx, bson.M{"_id": id, "userId": userID}, bson.M{"$set": set})
					return err
				})
			}
			if err := g.Wait(); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"action": plan.Action, "order": plan.Order})
	}
}

// buildHierarchy maps each of the client's groups to its member requests.
func buildHierarchy(c *gin.Context, userID bson.ObjectID) (*selection.Hierarchy, error) {
	ctx := c.Request.Context()

	h := selection.NewHierarchy()

	groupsCol := database.OpenCollection("groups")
	gCursor, err := groupsCol.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	var groups []models.Group
	if err := gCursor.All(ctx, &groups); err != nil {
		return nil, err
	}

	requestsCol := database.OpenCollection("requests")
	rCursor, err := requestsCol.Find(ctx, bson.M{"userId": userID, "groupId": bson.M{"$ne": nil}})
	if err != nil {
		return nil, err
	}
	var requests []models.Request
	if err := rCursor.All(ctx, &requests); err != nil {
		return nil, err
	}

	byGroup := make(map[string][]string)
	for _, r := range requests {
		key := r.GroupID.Hex()
		byGroup[key] = append(byGroup[key], r.Id.Hex())
	}
	for _, g := range groups {
		h.AddGroup(g.Id.Hex(), byGroup[g.Id.Hex()]...)
	}
	return h, nil
}

// POST /client/selection/toggle
//
// Stateless: takes the current selection and the clicked item, returns the
// next selection with the group/member coupling applied.
func ToggleSelection() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var body dto.ToggleSelectionDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		h, err := buildHierarchy(c, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		next := selection.Toggle(body.Selected, body.ID, selection.Kind(body.Kind), h)
		c.JSON(http.StatusOK, gin.H{"selected": next})
	}
}

// POST /client/requests/move
//
// Moves a mixed selection (groups expand to their members) into a group, or
// back to the top-level list when destinationGroupId is null.
func MoveItems() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var body dto.MoveItemsDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		requestsCol := database.OpenCollection("requests")
		groupsCol := database.OpenCollection("groups")
		now := time.Now().UTC()

		h, err := buildHierarchy(c, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		requestIDs, err := utils.StringsToObjectIDs(selection.ExpandRequests(body.Selected, h))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id in selection"})
			return
		}
		if len(requestIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "selection contains no requests"})
			return
		}

		if body.DestinationGroupID != nil {
			groupID, err := bson.ObjectIDFromHex(*body.DestinationGroupID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
				return
			}
			count, err := groupsCol.CountDocuments(ctx, bson.M{"_id": groupID, "userId": userID})
			if err != nil || count == 0 {
				c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
				return
			}

			res, err := requestsCol.UpdateMany(ctx,
				bson.M{"_id": bson.M{"$in": requestIDs}, "userId": userID},
				bson.M{"$set": bson.M{"groupId": groupID, "position": nil, "lastModified": now}})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			_, _ = groupsCol.UpdateByID(ctx, groupID, bson.M{"$set": bson.M{"lastModified": now}})

			c.JSON(http.StatusOK, gin.H{"moved": res.ModifiedCount})
			return
		}

		// back to the top of the flat list, keeping the selection's order
		items, err := loadOrderingItems(c, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		base := ordering.TopPosition(items)

		g, gctx := errgroup.WithContext(ctx)
		for i, id := range requestIDs {
			pos := base - (len(requestIDs) - 1) + i
			id := id
			g.Go(func() error {
				_, err := requestsCol.UpdateOne(gctx,
					bson.M{"_id": id, "userId": userID},
					bson.M{"$set": bson.M{"groupId": nil, "position": pos, "lastModified": now}})
				return err
			})
		}
		if err := g.Wait(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"moved": len(requestIDs)})
	}
}
